// Package pg provides PostgreSQL connection management for the durable
// key-value tier.
//
// Connect builds a pgx connection pool with application-level retry logic
// so transient startup races against the database do not fail the process.
// The pool plugs into kv.NewPostgres; call EnsureSchema there once the
// pool is up.
package pg
