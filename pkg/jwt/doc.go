// Package jwt implements the token codec: issuance, verification, and
// unverified decoding of JSON Web Tokens with the HS256/384/512 and
// RS256/384/512 algorithm families.
//
// Signing and signature verification are delegated to golang-jwt; claim
// validation is performed here so that failures map onto the error
// taxonomy the guards depend on (ErrInvalidSignature, ErrExpiredToken,
// ErrInvalidIssuer, ErrInvalidPermissions, ErrInvalidSubject). Audience
// checks are any-of set intersections via the scopes package.
//
// Claims carry the reserved fields plus an open extension map that
// round-trips through serialization untouched. The secureData claim is
// encrypted at issuance with AES-GCM under a key derived from the signing
// secret (or an explicit encryption key) and the token's jti; verification
// decrypts it back, leaving the ciphertext in place with a logged warning
// when the key does not match.
package jwt
