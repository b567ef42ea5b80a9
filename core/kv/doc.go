// Package kv provides the durable key-value tier consumed by the
// blocklist and, through it, the revocation flows.
//
// The Store interface mirrors the cache contract minus the cache-only
// capabilities; the Postgres implementation keeps everything in one
// auth_kv table with per-row expiry, so a deployment without Redis still
// gets revocations that survive restarts.
package kv
