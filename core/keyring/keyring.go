package keyring

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zanix-io/auth/pkg/ttl"
)

// Environment name prefixes for the recognized key spaces.
const (
	PrefixHMAC       = "JWT_KEY" // HMAC secret for user tokens
	PrefixRSAPrivate = "JWK_PRI" // base64 RSA private key for api signing
	PrefixRSAPublic  = "JWK_PUB" // base64 RSA public key for api verification

	// EnvRotationCycle configures the rotation period. TTL string or bare
	// seconds; "0" disables rotation.
	EnvRotationCycle = "JWK_ROTATION_CYCLE"

	defaultRotationCycle = 30 * 24 * time.Hour
)

// Key is a resolved signing or verification key. Version is empty for the
// single unversioned key, or "V<n>" for an enumerated entry.
type Key struct {
	Value   string
	Version string
}

// registry caches parsed environment entries for the process lifetime.
// Population is lazy; concurrent first reads may redundantly parse the
// environment but converge on the same entries.
var registry = struct {
	mu       sync.RWMutex
	versions map[string][]string
	cycle    *time.Duration
}{versions: make(map[string][]string)}

// Active resolves the currently active key for the given prefix.
func Active(prefix string) (Key, error) {
	return ActiveAt(prefix, time.Now())
}

// ActiveAt resolves the key active at the given instant. With no versioned
// entries it falls back to the base name. Exposed for deterministic
// rotation tests.
func ActiveAt(prefix string, now time.Time) (Key, error) {
	versions := versionedKeys(prefix)
	if len(versions) == 0 {
		value, err := resolve(prefix, prefix)
		if err != nil {
			return Key{}, err
		}
		return Key{Value: value}, nil
	}

	idx := 0
	cycle, err := rotationCycle()
	if err != nil {
		return Key{}, err
	}
	if secs := int64(cycle / time.Second); secs > 0 {
		idx = int((now.Unix() / secs) % int64(len(versions)))
	}

	value, err := decode(prefix, versions[idx])
	if err != nil {
		return Key{}, err
	}
	return Key{Value: value, Version: fmt.Sprintf("V%d", idx+1)}, nil
}

// ByKid resolves a key by its key-id hint. An empty kid resolves the base
// unversioned name.
func ByKid(prefix, kid string) (string, error) {
	name := prefix
	if kid != "" {
		name = prefix + "_" + kid
	}
	return resolve(prefix, name)
}

// ResetCache drops all cached entries, forcing the next lookup to re-read
// the environment. Intended for tests.
func ResetCache() {
	registry.mu.Lock()
	registry.versions = make(map[string][]string)
	registry.cycle = nil
	registry.mu.Unlock()
}

func resolve(prefix, name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return decode(prefix, value)
}

// decode reverses the base64 encoding applied to asymmetric key material
// at rest. Symmetric secrets pass through unchanged.
func decode(prefix, value string) (string, error) {
	if !strings.HasPrefix(prefix, "JWK_") {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	return string(raw), nil
}

// versionedKeys returns the raw (undecoded) enumerated values for a prefix,
// scanning <prefix>_V1, <prefix>_V2, ... contiguously until the first gap.
func versionedKeys(prefix string) []string {
	registry.mu.RLock()
	cached, ok := registry.versions[prefix]
	registry.mu.RUnlock()
	if ok {
		return cached
	}

	var versions []string
	for n := 1; ; n++ {
		value := os.Getenv(fmt.Sprintf("%s_V%d", prefix, n))
		if value == "" {
			break
		}
		versions = append(versions, value)
	}

	registry.mu.Lock()
	registry.versions[prefix] = versions
	registry.mu.Unlock()
	return versions
}

func rotationCycle() (time.Duration, error) {
	registry.mu.RLock()
	cached := registry.cycle
	registry.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	cycle := defaultRotationCycle
	if raw := os.Getenv(EnvRotationCycle); raw != "" {
		parsed, err := ttl.Parse(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRotationCycle, raw)
		}
		cycle = parsed
	}

	registry.mu.Lock()
	registry.cycle = &cycle
	registry.mu.Unlock()
	return cycle, nil
}
