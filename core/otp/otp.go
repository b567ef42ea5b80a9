// Package otp generates and verifies single-use numeric codes bound to a
// target identifier (an email address, a phone number) with a TTL.
//
// Codes are sampled from crypto/rand, stored under zanix:otp:<target> in
// the configured cache tier, and consumed on first successful
// verification: the delete is what enforces single use, so of two
// concurrent valid verifications exactly one observes success.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/zanix-io/auth/core/cache"
)

const keyPrefix = "otp"

// Defaults applied when Options leave fields unset.
const (
	DefaultTTL    = 300 * time.Second
	DefaultLength = 6
)

// Options configures code generation.
type Options struct {
	// Target identifies who the code is for; required.
	Target string
	// TTL bounds how long the code stays verifiable. Defaults to 5 minutes.
	TTL time.Duration
	// Length is the number of digits. Defaults to 6.
	Length int
}

// Key returns the cache key for a target.
func Key(target string) string {
	return cache.Key(keyPrefix, target)
}

// Generate produces a numeric code and stores it for the target,
// replacing any previous code. Digits are drawn byte-by-byte modulo 10;
// the slight bias is acceptable for short-lived second factors.
func Generate(ctx context.Context, store cache.Store, opts Options) (string, error) {
	if opts.Target == "" {
		return "", fmt.Errorf("otp: target is required")
	}
	length := opts.Length
	if length <= 0 {
		length = DefaultLength
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}

	code := make([]byte, length)
	for i, b := range buf {
		code[i] = '0' + b%10
	}

	if err := store.Set(ctx, Key(opts.Target), string(code), ttl); err != nil {
		return "", err
	}
	return string(code), nil
}

// Verify compares the submitted code against the stored one and consumes
// it on success. Empty submissions and unknown targets fail without a
// storage lookup round-trip beyond the read itself.
func Verify(ctx context.Context, store cache.Store, target, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	stored, ok, err := store.Get(ctx, Key(target))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := store.Delete(ctx, Key(target)); err != nil {
		return false, err
	}
	return true, nil
}
