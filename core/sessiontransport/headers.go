package sessiontransport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zanix-io/auth/core/session"
)

// undefinedToken is emitted as the token-cookie value when no refresh
// token exists, mirroring what consenting clients have always received.
const undefinedToken = "undefined"

// Headers is a computed set of response headers plus ordered Set-Cookie
// lines.
type Headers struct {
	Values  map[string]string
	Cookies []string
}

// Apply writes the headers and cookie lines onto a response.
func (h Headers) Apply(w http.ResponseWriter) {
	for name, value := range h.Values {
		w.Header().Set(name, value)
	}
	for _, line := range h.Cookies {
		w.Header().Add("Set-Cookie", line)
	}
}

// HeadersOptions configures SessionHeaders.
type HeadersOptions struct {
	// CookiesAccepted gates cookie emission.
	CookiesAccepted bool
	// Status defaults to unconfirmed.
	Status session.Status
	// Type selects the header table; defaults to user.
	Type session.Type
	// Subject is the session principal echoed back to the client.
	Subject string
	// Expiration is the session expiry, unix seconds; cookie Max-Age is
	// the remaining lifetime, clamped to zero.
	Expiration int64
	// RefreshToken is echoed in the token cookie for user sessions.
	RefreshToken string
}

// SessionHeaders computes the response headers describing a session. The
// result always carries the status and subject headers; cookies are
// emitted only for consenting clients, in a fixed order: status, subject,
// the user token, and the consent marker.
func SessionHeaders(opts HeadersOptions) Headers {
	profile := profileFor(opts.Type)

	status := opts.Status
	if status == "" {
		status = session.StatusUnconfirmed
	}

	h := Headers{
		Values: map[string]string{
			profile.StatusHeader:  string(status),
			profile.SubjectHeader: opts.Subject,
		},
	}

	if !opts.CookiesAccepted {
		return h
	}

	maxAge := int64(0)
	if now := time.Now().Unix(); opts.Expiration > now {
		maxAge = opts.Expiration - now
	}

	h.Cookies = append(h.Cookies,
		cookieLine(profile.StatusHeader, string(status), maxAge),
		cookieLine(profile.SubjectHeader, opts.Subject, maxAge),
	)
	if profile.TokenHeader != "" {
		token := opts.RefreshToken
		if token == "" {
			token = undefinedToken
		}
		h.Cookies = append(h.Cookies, cookieLine(profile.TokenHeader, token, maxAge))
	}
	h.Cookies = append(h.Cookies, cookieLine(session.HeaderCookiesAccepted, "true", maxAge))

	return h
}

// ForSession computes the headers describing an established session,
// consulting the request for cookie consent. An empty subject falls back
// to the session id, so anonymous and subject-less sessions stay
// addressable.
func ForSession(r *http.Request, sess *session.Session) Headers {
	subject := sess.Subject
	if subject == "" {
		subject = sess.ID
	}
	return SessionHeaders(HeadersOptions{
		CookiesAccepted: AcceptedCookies(r),
		Status:          sess.Status,
		Type:            sess.Type,
		Subject:         subject,
		Expiration:      sess.ExpiresAt,
		RefreshToken:    sess.Token,
	})
}

// DefaultSessionHeaders computes the headers for a request that never
// produced a session: the subject is the client-asserted one when present,
// else the derived anonymous identifier.
func DefaultSessionHeaders(r *http.Request, t session.Type, status session.Status) Headers {
	subject := ClientSubject(r, t)
	if subject == "" {
		subject = session.AnonymousID(r.Header)
	}
	return SessionHeaders(HeadersOptions{
		CookiesAccepted: AcceptedCookies(r),
		Status:          status,
		Type:            t,
		Subject:         subject,
	})
}

// ClientSubject resolves the client-asserted subject for a type,
// preferring the cookie over the header of the same name.
func ClientSubject(r *http.Request, t session.Type) string {
	profile := profileFor(t)
	if cookie, err := r.Cookie(profile.SubjectHeader); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get(profile.SubjectHeader)
}

// AcceptedCookies reports whether the client consented to cookies, in
// either header or cookie form. Only the literal "true" counts.
func AcceptedCookies(r *http.Request) bool {
	if r.Header.Get(session.HeaderCookiesAccepted) == "true" {
		return true
	}
	cookie, err := r.Cookie(session.HeaderCookiesAccepted)
	return err == nil && cookie.Value == "true"
}

func cookieLine(name, value string, maxAge int64) string {
	return fmt.Sprintf("%s=%s; Max-Age=%d; Path=/; HttpOnly; SameSite=Strict", name, value, maxAge)
}

// profileFor falls back to the user table for types without one, so
// anonymous sessions still serialize.
func profileFor(t session.Type) session.Profile {
	if profile, ok := session.GetProfile(t); ok {
		return profile
	}
	profile, _ := session.GetProfile(session.TypeUser)
	return profile
}
