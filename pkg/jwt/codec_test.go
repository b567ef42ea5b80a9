package jwt_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/pkg/jwt"
)

const secret = "my-secret"

func TestCreateVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	claims := &jwt.Claims{
		Subject:  "user-42",
		Audience: []string{"read", "write"},
		Extra:    map[string]any{"tenant": "acme"},
	}
	token, err := jwt.Create(claims, secret, jwt.CreateOptions{Expiration: "1h"})
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := jwt.Verify(token, secret, jwt.VerifyOptions{})
	require.NoError(t, err)

	assert.Equal(t, claims.ID, got.ID)
	assert.NotEmpty(t, got.ID, "jti must be generated")
	assert.Equal(t, jwt.DefaultIssuerName, got.Issuer)
	assert.Equal(t, "user-42", got.Subject)
	assert.Equal(t, []string{"read", "write"}, got.Audience)
	assert.Equal(t, "acme", got.Extra["tenant"])
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), got.ExpiresAt, 5)
}

func TestVerifyEmptyClaims(t *testing.T) {
	t.Parallel()

	token, err := jwt.Create(nil, secret, jwt.CreateOptions{})
	require.NoError(t, err)

	got, err := jwt.Verify(token, secret, jwt.VerifyOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
}

func TestVerifyTamperedToken(t *testing.T) {
	t.Parallel()

	token, err := jwt.Create(&jwt.Claims{Subject: "u"}, secret, jwt.CreateOptions{Expiration: "1h"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flipping a byte of the signature must fail verification.
	tampered := []byte(parts[2])
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}
	_, err = jwt.Verify(parts[0]+"."+parts[1]+"."+string(tampered), secret, jwt.VerifyOptions{})
	assert.ErrorIs(t, err, jwt.ErrInvalidSignature)

	// So must verifying under the wrong secret.
	_, err = jwt.Verify(token, "wrong-secret", jwt.VerifyOptions{})
	assert.ErrorIs(t, err, jwt.ErrInvalidSignature)

	// A tampered payload fails too, as malformed or signature-invalid.
	_, err = jwt.Verify(parts[0]+".AAAA."+parts[2], secret, jwt.VerifyOptions{})
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	claims := &jwt.Claims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.Create(claims, secret, jwt.CreateOptions{})
	require.NoError(t, err)

	_, err = jwt.Verify(token, secret, jwt.VerifyOptions{})
	require.ErrorIs(t, err, jwt.ErrExpiredToken)

	var verr *jwt.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, jwt.CodeExpiredToken, verr.Code)
	assert.Equal(t, claims.ExpiresAt, verr.Meta["expirationTime"])
	assert.NotNil(t, verr.Meta["currentTime"])
}

func TestCreateRejectsNonPositiveExpiration(t *testing.T) {
	t.Parallel()

	_, err := jwt.Create(nil, secret, jwt.CreateOptions{Expiration: "0"})
	assert.ErrorIs(t, err, jwt.ErrInvalidExpiration)
}

func TestVerifyClaimMismatches(t *testing.T) {
	t.Parallel()

	token, err := jwt.Create(&jwt.Claims{
		Subject:  "alice",
		Audience: []string{"read"},
	}, secret, jwt.CreateOptions{Expiration: "1h"})
	require.NoError(t, err)

	_, err = jwt.Verify(token, secret, jwt.VerifyOptions{Issuer: "someone-else"})
	assert.ErrorIs(t, err, jwt.ErrInvalidIssuer)

	_, err = jwt.Verify(token, secret, jwt.VerifyOptions{Audience: []string{"admin"}})
	assert.ErrorIs(t, err, jwt.ErrInvalidPermissions)

	_, err = jwt.Verify(token, secret, jwt.VerifyOptions{Subject: "bob"})
	assert.ErrorIs(t, err, jwt.ErrInvalidSubject)

	// Matching expectations pass.
	_, err = jwt.Verify(token, secret, jwt.VerifyOptions{
		Issuer:   jwt.DefaultIssuerName,
		Audience: []string{"read", "extra"},
		Subject:  "alice",
	})
	assert.NoError(t, err)
}

func TestSecureDataRoundTrip(t *testing.T) {
	t.Parallel()

	claims := &jwt.Claims{SecureData: "top-secret"}
	token, err := jwt.Create(claims, secret, jwt.CreateOptions{Expiration: "1h"})
	require.NoError(t, err)

	// The wire payload must not carry the plaintext.
	decoded, err := jwt.Decode(token)
	require.NoError(t, err)
	assert.NotEqual(t, "top-secret", decoded.Claims.SecureData)
	assert.NotEmpty(t, decoded.Claims.SecureData)

	got, err := jwt.Verify(token, secret, jwt.VerifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "top-secret", got.SecureData)
}

func TestSecureDataExplicitEncryptionKey(t *testing.T) {
	t.Parallel()

	claims := &jwt.Claims{SecureData: "payload"}
	token, err := jwt.Create(claims, secret, jwt.CreateOptions{
		Expiration:    "1h",
		EncryptionKey: "shared-key",
	})
	require.NoError(t, err)

	got, err := jwt.Verify(token, secret, jwt.VerifyOptions{EncryptionKey: "shared-key"})
	require.NoError(t, err)
	assert.Equal(t, "payload", got.SecureData)
}

func TestSecureDataWrongKeyKeepsCiphertext(t *testing.T) {
	t.Parallel()

	claims := &jwt.Claims{SecureData: "payload"}
	token, err := jwt.Create(claims, secret, jwt.CreateOptions{
		Expiration:    "1h",
		EncryptionKey: "key-one",
	})
	require.NoError(t, err)

	decoded, err := jwt.Decode(token)
	require.NoError(t, err)

	// Decryption failure is not a verification failure.
	got, err := jwt.Verify(token, secret, jwt.VerifyOptions{EncryptionKey: "key-two"})
	require.NoError(t, err)
	assert.Equal(t, decoded.Claims.SecureData, got.SecureData)
}

func TestRSASecureDataDroppedWithoutEncryptionKey(t *testing.T) {
	t.Parallel()

	private, public := generateRSAPair(t)

	claims := &jwt.Claims{SecureData: "sensitive"}
	token, err := jwt.Create(claims, private, jwt.CreateOptions{
		Algorithm:  jwt.RS256,
		Expiration: "1h",
	})
	require.NoError(t, err)

	got, err := jwt.Verify(token, public, jwt.VerifyOptions{Algorithm: jwt.RS256})
	require.NoError(t, err)
	assert.Empty(t, got.SecureData)
}

func TestRSARoundTrip(t *testing.T) {
	t.Parallel()

	private, public := generateRSAPair(t)

	token, err := jwt.Create(&jwt.Claims{Subject: "api-1"}, private, jwt.CreateOptions{
		Algorithm:  jwt.RS256,
		KeyID:      "V1",
		Expiration: "1h",
	})
	require.NoError(t, err)

	decoded, err := jwt.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "V1", decoded.KeyID())

	got, err := jwt.Verify(token, public, jwt.VerifyOptions{Algorithm: jwt.RS256})
	require.NoError(t, err)
	assert.Equal(t, "api-1", got.Subject)

	// An HS256 verifier must not accept an RSA token.
	_, err = jwt.Verify(token, public, jwt.VerifyOptions{Algorithm: jwt.HS256})
	assert.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.###"} {
		_, err := jwt.Decode(in)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken, "input %q", in)
	}
}

func TestSingleAudienceSerializesAsString(t *testing.T) {
	t.Parallel()

	token, err := jwt.Create(&jwt.Claims{Audience: []string{"only"}}, secret, jwt.CreateOptions{})
	require.NoError(t, err)

	decoded, err := jwt.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, decoded.Claims.Audience)
}

func generateRSAPair(t *testing.T) (privatePEM, publicPEM string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub}))
	return privatePEM, publicPEM
}
