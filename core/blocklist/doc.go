// Package blocklist records revoked token identifiers until their natural
// expiration, so a token is never rejected longer than it would have
// lived.
//
// Entries live under zanix:jwt-block-list:<jti>. The guard consults Check
// on every verified request; the revocation flows call Add. Writes and
// reads tier across the configured stores: a distributed cache is
// authoritative on its own, while the local-cache arrangement mirrors to a
// durable key-value store and backfills from it on miss.
package blocklist
