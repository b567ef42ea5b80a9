// Package cache defines the cache contract the authentication core runs
// against, and ships the two first-party implementations.
//
// Local is an in-process bounded LRU with per-entry TTLs, lazy expiry, an
// optional background sweep, and a per-key lock registry. Redis adapts a
// go-redis client and adds the capabilities the distributed paths need:
// atomic Lua evaluation and SET NX locks.
//
// The optional Scripter and Locker interfaces let consumers pick an
// execution strategy by capability instead of by concrete type: the rate
// limiter runs its atomic script where Eval is available and falls back to
// a synchronous critical section under WithLock elsewhere. Shared()
// distinguishes the distributed tier from the local one for components
// that mirror writes into a durable key-value store.
package cache
