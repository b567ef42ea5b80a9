// Package sessiontransport serializes sessions onto HTTP responses and
// reads session hints back off requests.
//
// Every response that passed through the guard carries the session's
// status and subject headers; clients that consented via
// X-Znx-Cookies-Accepted additionally receive the same facts as Set-Cookie
// lines with a deterministic attribute tail (Max-Age, Path=/, HttpOnly,
// SameSite=Strict), plus the refresh-token cookie for user sessions. The
// cookie order and shape are part of the wire contract downstream clients
// depend on.
//
// On the request side the package extracts bearer tokens from the
// type-appropriate authorization header, resolves the client subject from
// cookie or header, and answers whether the client consented to cookies.
package sessiontransport
