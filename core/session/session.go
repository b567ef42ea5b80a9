package session

import (
	"context"

	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/keyring"
	"github.com/zanix-io/auth/pkg/jwt"
)

// Type tags a session with its principal kind.
type Type string

const (
	TypeUser      Type = "user"
	TypeAPI       Type = "api"
	TypeAnonymous Type = "anonymous"
)

// Status is the session lifecycle state reported back to clients.
type Status string

const (
	StatusActive      Status = "active"
	StatusFailed      Status = "failed"
	StatusUnconfirmed Status = "unconfirmed"
	StatusBlocked     Status = "blocked"
	StatusRevoked     Status = "revoked"
)

// Response and request header names owned by the session layer.
const (
	HeaderAuthorization    = "Authorization"
	HeaderAPIAuthorization = "X-Znx-Authorization"
	HeaderUserID           = "X-Znx-User-Id"
	HeaderAPIID            = "X-Znx-Api-Id"
	HeaderUserStatus       = "X-Znx-User-Session-Status"
	HeaderAPIStatus        = "X-Znx-Api-Session-Status"
	HeaderAppToken         = "X-Znx-App-Token"
	HeaderCookiesAccepted  = "X-Znx-Cookies-Accepted"
)

// Profile maps a session type onto its cryptography and transport.
type Profile struct {
	Algorithm     jwt.Algorithm
	SigningPrefix string // keyring prefix for issuance
	VerifyPrefix  string // keyring prefix for verification
	AuthHeader    string // where the bearer token travels
	SubjectHeader string
	StatusHeader  string
	TokenHeader   string // empty when the type never echoes tokens
}

var profiles = map[Type]Profile{
	TypeUser: {
		Algorithm:     jwt.HS256,
		SigningPrefix: keyring.PrefixHMAC,
		VerifyPrefix:  keyring.PrefixHMAC,
		AuthHeader:    HeaderAuthorization,
		SubjectHeader: HeaderUserID,
		StatusHeader:  HeaderUserStatus,
		TokenHeader:   HeaderAppToken,
	},
	TypeAPI: {
		Algorithm:     jwt.RS256,
		SigningPrefix: keyring.PrefixRSAPrivate,
		VerifyPrefix:  keyring.PrefixRSAPublic,
		AuthHeader:    HeaderAPIAuthorization,
		SubjectHeader: HeaderAPIID,
		StatusHeader:  HeaderAPIStatus,
	},
}

// GetProfile returns the signing/transport profile for a type.
// Anonymous sessions have none.
func GetProfile(t Type) (Profile, bool) {
	p, ok := profiles[t]
	return p, ok
}

// Session is the request-local authentication state. Once assigned to a
// request context it is treated as immutable for the rest of the request.
type Session struct {
	ID        string         // token jti
	Type      Type           //
	Subject   string         //
	RateLimit int            // per-window quota or plan index
	Scope     []string       // permission strings from aud
	Status    Status         //
	Payload   map[string]any // remaining claims
	Token     string         // refresh token, when known
	ExpiresAt int64          // unix seconds; 0 for revoked/failed sessions
}

// FromClaims builds a session from a verified token payload.
func FromClaims(claims *jwt.Claims, t Type) *Session {
	return &Session{
		ID:        claims.ID,
		Type:      t,
		Subject:   claims.Subject,
		RateLimit: claims.RateLimit,
		Scope:     claims.Audience,
		Status:    StatusUnconfirmed,
		Payload:   claims.Extra,
		ExpiresAt: claims.ExpiresAt,
	}
}

type sessionContextKey struct{}

// Assign attaches the session to the request context. The guard calls it
// at most once per request.
func Assign(ctx handler.Context, s *Session) {
	ctx.SetValue(sessionContextKey{}, s)
}

// FromContext returns the session assigned to the request, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Clear removes the session from the request context, preventing leakage
// across middleware boundaries.
func Clear(ctx handler.Context) {
	ctx.SetValue(sessionContextKey{}, (*Session)(nil))
}
