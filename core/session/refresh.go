package session

import (
	"github.com/zanix-io/auth/core/blocklist"
	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/keyring"
	"github.com/zanix-io/auth/core/kv"
	"github.com/zanix-io/auth/pkg/jwt"
)

// RefreshOptions configures a refresh-token exchange.
type RefreshOptions struct {
	// Token is the refresh token. When empty, the request cookie named by
	// the type's token header (X-Znx-App-Token) is used.
	Token string
	// Type defaults to user.
	Type Type
	// EncryptionKey is re-applied to the regenerated access token, since
	// keys are never embedded in refresh payloads.
	EncryptionKey string
	// Cache and KV, when both set, enable the blocklist consult.
	Cache cache.Store
	KV    kv.Store
}

// RefreshResult is the outcome of a successful refresh.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	OldToken     string
	Claims       *jwt.Claims
}

// RefreshSessionTokens verifies a refresh token and mints a replacement
// pair from the access options embedded in its payload.
//
// Verification resolves the key through the registry by the token's own
// kid, the same path the guard takes, so a rotation between issuance and
// refresh cannot strand the token. Access tokens presented as refresh
// tokens are rejected. When both cache and KV are supplied the blocklist
// is consulted first.
func RefreshSessionTokens(ctx handler.Context, opts RefreshOptions) (*RefreshResult, error) {
	t := opts.Type
	if t == "" {
		t = TypeUser
	}
	profile, ok := GetProfile(t)
	if !ok {
		return nil, ErrUnsupportedType
	}

	token := opts.Token
	if token == "" {
		token = cookieValue(ctx, profile.TokenHeader)
	}
	if token == "" {
		return nil, ErrMissingRefreshToken
	}

	decoded, err := jwt.Decode(token)
	if err != nil {
		return nil, err
	}
	secret, err := keyring.ByKid(profile.VerifyPrefix, decoded.KeyID())
	if err != nil {
		return nil, err
	}

	claims, err := jwt.Verify(token, secret, jwt.VerifyOptions{
		Algorithm:     profile.Algorithm,
		EncryptionKey: opts.EncryptionKey,
	})
	if err != nil {
		return nil, err
	}

	accessRaw, ok := claims.Extra["access"]
	if !ok {
		return nil, ErrNotRefreshToken
	}

	if opts.Cache != nil && opts.KV != nil {
		listed, err := blocklist.Check(ctx, claims.ID, opts.Cache, opts.KV)
		if err != nil {
			return nil, err
		}
		if listed {
			return nil, ErrTokenRevoked
		}
	}

	accessOpts, err := optionsFromClaim(accessRaw)
	if err != nil {
		return nil, ErrNotRefreshToken
	}
	accessOpts.Type = t
	accessOpts.EncryptionKey = opts.EncryptionKey

	pair, err := GenerateSessionTokens(ctx, accessOpts)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		OldToken:     token,
		Claims:       claims,
	}, nil
}

func cookieValue(ctx handler.Context, name string) string {
	if name == "" {
		return ""
	}
	cookie, err := ctx.Request().Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
