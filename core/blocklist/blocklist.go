package blocklist

import (
	"context"
	"strconv"
	"time"

	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/kv"
	"github.com/zanix-io/auth/pkg/jwt"
)

const keyPrefix = "jwt-block-list"

// Key returns the cache key for a token identifier.
func Key(jti string) string {
	return cache.Key(keyPrefix, jti)
}

// Add records the token as revoked for the remainder of its lifetime and
// returns its decoded payload. Already-expired tokens are not stored.
//
// With a distributed cache the entry is written only there; otherwise it
// goes to the local cache and, when a durable store is provided, is
// mirrored so revocation survives restarts. The stored value is the
// token's expiration instant, which lets the durable tier backfill the
// local cache with the remaining TTL.
func Add(ctx context.Context, token string, c cache.Store, durable kv.Store) (*jwt.Claims, error) {
	decoded, err := jwt.Decode(token)
	if err != nil {
		return nil, err
	}
	claims := decoded.Claims

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if claims.ExpiresAt == 0 || ttl <= 0 {
		return claims, nil
	}

	key := Key(claims.ID)
	value := strconv.FormatInt(claims.ExpiresAt, 10)

	if c.Shared() {
		if err := c.Set(ctx, key, value, ttl); err != nil {
			return nil, err
		}
		return claims, nil
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		return nil, err
	}
	if durable != nil {
		if err := durable.Set(ctx, key, value, ttl); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// Check reports whether the token identifier is blocklisted.
//
// A distributed cache is queried exclusively. Otherwise the local cache is
// consulted first and, on a miss, the durable store; a durable hit is
// backfilled into the local cache with the remaining TTL.
func Check(ctx context.Context, jti string, c cache.Store, durable kv.Store) (bool, error) {
	key := Key(jti)

	value, ok, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if ok || c.Shared() || durable == nil {
		return truthy(value), nil
	}

	value, ok, err = durable.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if exp, err := strconv.ParseInt(value, 10, 64); err == nil {
		if remaining := time.Until(time.Unix(exp, 0)); remaining > 0 {
			_ = c.Set(ctx, key, value, remaining)
		}
	}
	return truthy(value), nil
}

func truthy(value string) bool {
	return value != "" && value != "0" && value != "false"
}
