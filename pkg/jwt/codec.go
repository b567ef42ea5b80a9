package jwt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zanix-io/auth/pkg/scopes"
	"github.com/zanix-io/auth/pkg/ttl"
)

// DefaultIssuerName is the issuer stamped on tokens when neither the
// claims nor the environment provide one.
const DefaultIssuerName = "zanix-auth"

// EnvDefaultIssuer overrides DefaultIssuerName.
const EnvDefaultIssuer = "DEFAULT_JWT_ISSUER"

// Algorithm selects the signing method.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"
)

// IsRSA reports whether the algorithm belongs to the RSA family.
func (a Algorithm) IsRSA() bool { return strings.HasPrefix(string(a), "RS") }

func (a Algorithm) signingMethod() (jwtlib.SigningMethod, error) {
	switch a {
	case HS256:
		return jwtlib.SigningMethodHS256, nil
	case HS384:
		return jwtlib.SigningMethodHS384, nil
	case HS512:
		return jwtlib.SigningMethodHS512, nil
	case RS256:
		return jwtlib.SigningMethodRS256, nil
	case RS384:
		return jwtlib.SigningMethodRS384, nil
	case RS512:
		return jwtlib.SigningMethodRS512, nil
	}
	return nil, ErrUnsupportedAlgorithm
}

// CreateOptions configures token issuance.
type CreateOptions struct {
	// Algorithm defaults to HS256.
	Algorithm Algorithm
	// KeyID is emitted as the kid header for verification-key selection.
	KeyID string
	// Expiration is a TTL string or bare seconds; when set, exp = now + ttl.
	Expiration string
	// EncryptionKey overrides the signing secret as the secureData
	// encryption key. Without it, RSA tokens drop secureData at issuance.
	EncryptionKey string
	// Logger receives issuance warnings; nil discards them.
	Logger *slog.Logger
}

// VerifyOptions configures token verification.
type VerifyOptions struct {
	// Algorithm defaults to HS256. Tokens signed with any other method are
	// rejected.
	Algorithm Algorithm
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	// Subject, when set, must match the token's sub claim.
	Subject string
	// Audience, when set, must have a non-empty intersection with the
	// token's aud claim.
	Audience []string
	// EncryptionKey overrides the secret for secureData decryption.
	EncryptionKey string
	// Logger receives decryption warnings; nil discards them.
	Logger *slog.Logger
}

// Create issues a signed token from the given claims. The claims are
// updated in place: a jti is generated when absent, the issuer defaults,
// exp is computed from opts.Expiration, and secureData is replaced by its
// ciphertext when encryption applies.
func Create(claims *Claims, secret string, opts CreateOptions) (string, error) {
	if claims == nil {
		claims = &Claims{}
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = HS256
	}
	method, err := alg.signingMethod()
	if err != nil {
		return "", err
	}

	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
	if claims.Issuer == "" {
		claims.Issuer = DefaultIssuer()
	}
	if opts.Expiration != "" {
		d, err := ttl.Parse(opts.Expiration)
		if err != nil || d <= 0 {
			return "", ErrInvalidExpiration
		}
		claims.ExpiresAt = time.Now().Add(d).Unix()
	}

	if claims.SecureData != "" {
		if alg.IsRSA() && opts.EncryptionKey == "" {
			// The RSA signing key is not a shared secret, so there is
			// nothing both sides can derive an encryption key from.
			logOrDiscard(opts.Logger).Warn("dropping secureData: RSA token without explicit encryption key",
				slog.String("jti", claims.ID))
			claims.SecureData = ""
		} else {
			keySource := opts.EncryptionKey
			if keySource == "" {
				keySource = secret
			}
			ciphertext, err := encryptSecureData(claims.SecureData, keySource, claims.ID)
			if err != nil {
				return "", errors.Join(ErrSigningFailed, err)
			}
			claims.SecureData = ciphertext
		}
	}

	key, err := signingKey(alg, secret)
	if err != nil {
		return "", err
	}

	token := jwtlib.NewWithClaims(method, claims)
	if opts.KeyID != "" {
		token.Header["kid"] = opts.KeyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}

// Verify checks the token signature and claims, returning the decoded
// payload. secureData is decrypted when the derived key matches; a
// mismatch logs a warning and leaves the ciphertext in place rather than
// failing verification.
func Verify(token, secret string, opts VerifyOptions) (*Claims, error) {
	alg := opts.Algorithm
	if alg == "" {
		alg = HS256
	}
	if _, err := alg.signingMethod(); err != nil {
		return nil, err
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{string(alg)}),
		jwtlib.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwtlib.Token) (any, error) {
		return verificationKey(alg, secret)
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenSignatureInvalid) {
			return nil, newValidationError(ErrInvalidSignature, CodeInvalidSignature, nil)
		}
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, map[string]any{"cause": err.Error()})
	}

	if claims.SecureData != "" {
		keySource := opts.EncryptionKey
		if keySource == "" && !alg.IsRSA() {
			keySource = secret
		}
		if keySource != "" {
			plain, err := decryptSecureData(claims.SecureData, keySource, claims.ID)
			if err != nil {
				logOrDiscard(opts.Logger).Warn("secureData decryption failed, leaving ciphertext in place",
					slog.String("jti", claims.ID))
			} else {
				claims.SecureData = plain
			}
		}
	}

	now := time.Now().Unix()
	if claims.ExpiresAt != 0 && now > claims.ExpiresAt {
		return nil, newValidationError(ErrExpiredToken, CodeExpiredToken, map[string]any{
			"currentTime":    now,
			"expirationTime": claims.ExpiresAt,
		})
	}
	if opts.Issuer != "" && claims.Issuer != opts.Issuer {
		return nil, newValidationError(ErrInvalidIssuer, CodeInvalidIssuer, map[string]any{
			"issuer": claims.Issuer,
		})
	}
	if len(opts.Audience) > 0 {
		if err := scopes.Validate(opts.Audience, claims.Audience); err != nil {
			return nil, newValidationError(ErrInvalidPermissions, CodeInvalidPermissions, map[string]any{
				"reason": err.Error(),
			})
		}
	}
	if opts.Subject != "" && claims.Subject != opts.Subject {
		return nil, newValidationError(ErrInvalidSubject, CodeInvalidSubject, map[string]any{
			"subject": claims.Subject,
		})
	}

	return claims, nil
}

// Decoded is the result of splitting a token without verification.
type Decoded struct {
	Header    map[string]any
	Claims    *Claims
	Signature string // raw base64url signature segment
}

// KeyID returns the kid header hint, if present.
func (d *Decoded) KeyID() string {
	kid, _ := d.Header["kid"].(string)
	return kid
}

// Decode splits a token into header, payload, and signature without
// verifying it. Use it to read kid before key selection or to re-read
// already-validated tokens in downstream flows.
func Decode(token string) (*Decoded, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, nil)
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, nil)
	}
	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, nil)
	}

	var header map[string]any
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, nil)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payloadJSON, claims); err != nil {
		return nil, newValidationError(ErrInvalidToken, CodeInvalidToken, nil)
	}

	return &Decoded{Header: header, Claims: claims, Signature: parts[2]}, nil
}

// DefaultIssuer returns the configured default issuer.
func DefaultIssuer() string {
	if iss := os.Getenv(EnvDefaultIssuer); iss != "" {
		return iss
	}
	return DefaultIssuerName
}

func signingKey(alg Algorithm, secret string) (any, error) {
	if !alg.IsRSA() {
		return []byte(secret), nil
	}
	key, err := jwtlib.ParseRSAPrivateKeyFromPEM([]byte(secret))
	if err != nil {
		return nil, errors.Join(ErrSigningFailed, err)
	}
	return key, nil
}

func verificationKey(alg Algorithm, secret string) (any, error) {
	if !alg.IsRSA() {
		return []byte(secret), nil
	}
	return jwtlib.ParseRSAPublicKeyFromPEM([]byte(secret))
}

func unixTime(sec int64) time.Time { return time.Unix(sec, 0) }

func logOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
