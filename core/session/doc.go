// Package session defines the request-scoped session model and the token
// builders that mint, refresh, and revoke the access/refresh pair backing
// it.
//
// A Session is derived from a verified token's claims (or, for
// unauthenticated traffic, from the client's IP and user agent) and
// assigned to the request context exactly once by the guard; from then on
// it is treated as immutable for the remainder of the request.
//
// Token types select their cryptography and transport through a small
// profile table: user tokens are HMAC-signed with the JWT_KEY space and
// travel in Authorization, api tokens are RSA-signed with the JWK space
// and travel in X-Znx-Authorization. Access tokens are capped at one hour;
// refresh tokens run long and embed the options used to mint their
// companion access token, so refreshing needs only the refresh token plus,
// for encrypted payloads, the encryption key, which is never embedded.
package session
