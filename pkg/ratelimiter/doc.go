// Package ratelimiter implements fixed-window request counting with
// failed-attempt accounting on top of the cache contract.
//
// A window opens at the first observed request for a key and closes when
// the record's TTL lapses; within it, requests increment a counter up to
// the configured maximum. Denied requests additionally advance a companion
// failed-attempts counter with a longer TTL, which re-arms each time it
// reaches its threshold so persistent abuse surfaces in the logs at a
// bounded rate.
//
// Two execution paths share one observable contract. Against a store that
// can evaluate scripts (Redis), the whole load-check-increment transition
// runs server-side in a single atomic Lua script. Against the local store
// the same transition runs in a synchronous critical section under the
// store's per-key lock. No two concurrent callers observe the same
// pre-increment count for a key on either path.
package ratelimiter
