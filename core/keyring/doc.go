// Package keyring resolves signing and verification keys from the process
// environment, with optional time-based rotation across enumerated
// versions.
//
// Two key spaces exist: the symmetric HMAC secret (JWT_KEY) used for user
// tokens, and the asymmetric RSA pair (JWK_PRI / JWK_PUB) used for api
// tokens. Each space recognizes a base unversioned name plus a contiguous
// sequence of versioned names (JWT_KEY_V1, JWT_KEY_V2, ...) scanned until
// the first gap. Asymmetric material is stored base64-encoded and decoded
// on use.
//
// The active version is a pure function of wall-clock time:
//
//	idx = floor(now_seconds / cycle_seconds) mod count
//
// where the cycle comes from JWK_ROTATION_CYCLE (a TTL string such as
// "30d" or bare seconds; default 30 days; "0" disables rotation and pins
// index 0). Parsed entries are cached process-wide; tests reset the cache
// with ResetCache.
package keyring
