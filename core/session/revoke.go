package session

import (
	"context"

	"github.com/zanix-io/auth/core/blocklist"
	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/kv"
	"github.com/zanix-io/auth/pkg/async"
	"github.com/zanix-io/auth/pkg/jwt"
)

// RevokeAppTokens blocklists the given tokens in parallel and returns
// their decoded payloads, in input order. Already-expired tokens decode
// successfully but are not stored.
func RevokeAppTokens(ctx context.Context, tokens []string, c cache.Store, durable kv.Store) ([]*jwt.Claims, error) {
	results := make([]*jwt.Claims, len(tokens))
	futures := make([]*async.ExecFuture, len(tokens))

	for i, token := range tokens {
		i := i
		futures[i] = async.Exec(ctx, token, func(ctx context.Context, token string) error {
			claims, err := blocklist.Add(ctx, token, c, durable)
			if err != nil {
				return err
			}
			results[i] = claims
			return nil
		})
	}

	if err := async.ExecAll(futures...); err != nil {
		return nil, err
	}
	return results, nil
}

// RevokeOptions configures a session revocation.
type RevokeOptions struct {
	// Token is the refresh token to revoke. When empty, the request cookie
	// named by the type's token header is used.
	Token string
	// Type defaults to user.
	Type Type
	// Cache receives the blocklist entries; required.
	Cache cache.Store
	// KV optionally mirrors them durably.
	KV kv.Store
}

// RevokeSessionToken blocklists the session's refresh token (and the
// context-known one, when different) and assigns a revoked session to the
// request context.
func RevokeSessionToken(ctx handler.Context, opts RevokeOptions) error {
	t := opts.Type
	if t == "" {
		t = TypeUser
	}
	profile, ok := GetProfile(t)
	if !ok {
		return ErrUnsupportedType
	}

	token := opts.Token
	if token == "" {
		token = cookieValue(ctx, profile.TokenHeader)
	}

	tokens := make([]string, 0, 2)
	if token != "" {
		tokens = append(tokens, token)
	}
	if sess, ok := FromContext(ctx); ok && sess.Token != "" && sess.Token != token {
		tokens = append(tokens, sess.Token)
	}
	if len(tokens) == 0 {
		return ErrMissingRefreshToken
	}

	revoked, err := RevokeAppTokens(ctx, tokens, opts.Cache, opts.KV)
	if err != nil {
		return err
	}

	sess := FromClaims(revoked[0], t)
	sess.Status = StatusRevoked
	sess.ExpiresAt = 0
	Assign(ctx, sess)
	return nil
}
