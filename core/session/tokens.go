package session

import (
	"encoding/json"
	"time"

	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/keyring"
	"github.com/zanix-io/auth/pkg/jwt"
	"github.com/zanix-io/auth/pkg/ttl"
)

// DefaultRateLimit is stamped on tokens minted without an explicit quota.
const DefaultRateLimit = 100

// Standard pair expirations.
const (
	AccessTokenTTL  = "1h"
	RefreshTokenTTL = "1y"

	maxAccessTokenTTL = time.Hour
	minRefreshTokenTTL = 24 * time.Hour
)

// TokenOptions configures token issuance. The json tags matter: refresh
// tokens embed these options under the "access" claim so a refresh alone
// can regenerate an equivalent pair. The encryption key is deliberately
// excluded from that embedding and must be re-supplied on refresh.
type TokenOptions struct {
	Subject    string         `json:"subject,omitempty"`
	Expiration string         `json:"expiration,omitempty"`
	Type       Type           `json:"type,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	RateLimit  int            `json:"rateLimit,omitempty"`

	EncryptionKey string `json:"-"`
}

// TokenPair carries a freshly minted access/refresh pair.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CreateAppToken mints a signed token for the given options. The session
// type selects the algorithm and signing key: user tokens are HMAC-signed,
// api tokens RSA-signed with the key active under the current rotation.
// payload.permissions is promoted into the audience claim and
// payload.secureData into the encrypted claim.
func CreateAppToken(opts TokenOptions) (string, *jwt.Claims, error) {
	t := opts.Type
	if t == "" {
		t = TypeUser
	}
	profile, ok := GetProfile(t)
	if !ok {
		return "", nil, ErrUnsupportedType
	}

	payload := make(map[string]any, len(opts.Payload))
	for k, v := range opts.Payload {
		payload[k] = v
	}

	var audience []string
	if perms, ok := payload["permissions"]; ok {
		audience = toStrings(perms)
		delete(payload, "permissions")
	}

	secureData, _ := payload["secureData"].(string)
	delete(payload, "secureData")
	if secureData != "" && t == TypeAPI && opts.EncryptionKey == "" {
		return "", nil, ErrEncryptionKeyRequired
	}

	key, err := keyring.Active(profile.SigningPrefix)
	if err != nil {
		return "", nil, err
	}

	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	claims := &jwt.Claims{
		Subject:    opts.Subject,
		Audience:   audience,
		RateLimit:  rateLimit,
		SecureData: secureData,
		Extra:      payload,
	}

	token, err := jwt.Create(claims, key.Value, jwt.CreateOptions{
		Algorithm:     profile.Algorithm,
		KeyID:         key.Version,
		Expiration:    opts.Expiration,
		EncryptionKey: opts.EncryptionKey,
	})
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// CreateAccessToken mints a short-lived token and assigns the resulting
// session to the request context with status active. Expirations beyond
// one hour are rejected.
func CreateAccessToken(ctx handler.Context, opts TokenOptions) (string, error) {
	if opts.Expiration == "" {
		opts.Expiration = AccessTokenTTL
	}
	d, err := ttl.Parse(opts.Expiration)
	if err != nil {
		return "", err
	}
	if d > maxAccessTokenTTL {
		return "", ErrAccessTokenTTL
	}

	token, claims, err := CreateAppToken(opts)
	if err != nil {
		return "", err
	}

	sess := FromClaims(claims, tokenType(opts))
	sess.Status = StatusActive
	Assign(ctx, sess)
	return token, nil
}

// CreateRefreshToken mints a long-lived token. Only long expirations
// (1w, 1mo, 6mo, 1y, ...) are admissible.
func CreateRefreshToken(opts TokenOptions) (string, error) {
	if opts.Expiration == "" {
		opts.Expiration = RefreshTokenTTL
	}
	d, err := ttl.Parse(opts.Expiration)
	if err != nil {
		return "", err
	}
	if d < minRefreshTokenTTL {
		return "", ErrRefreshTokenTTL
	}

	token, _, err := CreateAppToken(opts)
	return token, err
}

// GenerateSessionTokens mints the access/refresh pair for one session: an
// access token expiring in an hour and a refresh token expiring in a year
// whose payload embeds the access options. The refresh token is recorded
// on the in-context session.
func GenerateSessionTokens(ctx handler.Context, opts TokenOptions) (*TokenPair, error) {
	accessOpts := opts
	accessOpts.Expiration = AccessTokenTTL
	accessToken, err := CreateAccessToken(ctx, accessOpts)
	if err != nil {
		return nil, err
	}

	embedded, err := optionsClaim(opts)
	if err != nil {
		return nil, err
	}
	refreshOpts := opts
	refreshOpts.Expiration = RefreshTokenTTL
	refreshOpts.Payload = map[string]any{"access": embedded}
	refreshToken, err := CreateRefreshToken(refreshOpts)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(maxAccessTokenTTL)
	if sess, ok := FromContext(ctx); ok {
		sess.Token = refreshToken
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(maxAccessTokenTTL.Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}

// optionsClaim converts TokenOptions into the plain map embedded in the
// refresh token payload.
func optionsClaim(opts TokenOptions) (map[string]any, error) {
	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// optionsFromClaim is the inverse of optionsClaim.
func optionsFromClaim(v any) (TokenOptions, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return TokenOptions{}, err
	}
	var opts TokenOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return TokenOptions{}, err
	}
	return opts, nil
}

func tokenType(opts TokenOptions) Type {
	if opts.Type == "" {
		return TypeUser
	}
	return opts.Type
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
