package sessiontransport_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/core/sessiontransport"
)

func TestSessionHeadersWithoutConsent(t *testing.T) {
	t.Parallel()

	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{
		Type:    session.TypeUser,
		Status:  session.StatusFailed,
		Subject: "anonymous-abc",
	})

	assert.Equal(t, "failed", h.Values[session.HeaderUserStatus])
	assert.Equal(t, "anonymous-abc", h.Values[session.HeaderUserID])
	assert.Empty(t, h.Cookies, "no consent, no cookies")
}

func TestSessionHeadersDefaultsStatusUnconfirmed(t *testing.T) {
	t.Parallel()

	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{Subject: "s"})
	assert.Equal(t, "unconfirmed", h.Values[session.HeaderUserStatus])
}

func TestSessionHeadersUserCookies(t *testing.T) {
	t.Parallel()

	exp := time.Now().Unix() + 3600
	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{
		CookiesAccepted: true,
		Type:            session.TypeUser,
		Status:          session.StatusActive,
		Subject:         "user-1",
		Expiration:      exp,
		RefreshToken:    "refresh-token",
	})

	require.Len(t, h.Cookies, 4)
	assert.True(t, strings.HasPrefix(h.Cookies[0], session.HeaderUserStatus+"=active; Max-Age="), h.Cookies[0])
	maxAge, err := strconv.Atoi(strings.TrimSuffix(strings.Split(h.Cookies[0], "Max-Age=")[1], "; Path=/; HttpOnly; SameSite=Strict"))
	require.NoError(t, err)
	assert.InDelta(t, 3600, maxAge, 5)
	assert.True(t, strings.HasPrefix(h.Cookies[1], session.HeaderUserID+"=user-1; "), h.Cookies[1])
	assert.True(t, strings.HasPrefix(h.Cookies[2], session.HeaderAppToken+"=refresh-token; "), h.Cookies[2])
	assert.True(t, strings.HasPrefix(h.Cookies[3], session.HeaderCookiesAccepted+"=true; "), h.Cookies[3])

	for _, line := range h.Cookies {
		assert.True(t, strings.HasSuffix(line, "; Path=/; HttpOnly; SameSite=Strict"), line)
	}
}

func TestSessionHeadersExpiredMaxAgeZero(t *testing.T) {
	t.Parallel()

	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{
		CookiesAccepted: true,
		Type:            session.TypeUser,
		Status:          session.StatusFailed,
		Subject:         "anonymous-x",
	})

	require.Len(t, h.Cookies, 4)
	for _, line := range h.Cookies {
		assert.Contains(t, line, "Max-Age=0;", line)
	}
	// With no refresh token the user token cookie is the undefined marker.
	assert.True(t, strings.HasPrefix(h.Cookies[2], session.HeaderAppToken+"=undefined; "), h.Cookies[2])
}

func TestSessionHeadersAPITypeOmitsTokenCookie(t *testing.T) {
	t.Parallel()

	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{
		CookiesAccepted: true,
		Type:            session.TypeAPI,
		Status:          session.StatusActive,
		Subject:         "api-9",
		RefreshToken:    "should-not-appear",
	})

	assert.Equal(t, "active", h.Values[session.HeaderAPIStatus])
	assert.Equal(t, "api-9", h.Values[session.HeaderAPIID])

	require.Len(t, h.Cookies, 3)
	for _, line := range h.Cookies {
		assert.NotContains(t, line, session.HeaderAppToken)
	}
}

func TestForSessionFallsBackToID(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	h := sessiontransport.ForSession(r, &session.Session{
		ID:     "jti-1",
		Type:   session.TypeUser,
		Status: session.StatusActive,
	})
	assert.Equal(t, "jti-1", h.Values[session.HeaderUserID])
}

func TestDefaultSessionHeaders(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	h := sessiontransport.DefaultSessionHeaders(r, session.TypeUser, session.StatusFailed)
	assert.Equal(t, "failed", h.Values[session.HeaderUserStatus])
	assert.True(t, strings.HasPrefix(h.Values[session.HeaderUserID], "anonymous-"))
	assert.Empty(t, h.Cookies)
}

func TestDefaultSessionHeadersPrefersClientSubject(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(session.HeaderUserID, "known-user")

	h := sessiontransport.DefaultSessionHeaders(r, session.TypeUser, session.StatusFailed)
	assert.Equal(t, "known-user", h.Values[session.HeaderUserID])
}

func TestClientSubjectPrefersCookie(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(session.HeaderUserID, "from-header")
	r.AddCookie(&http.Cookie{Name: session.HeaderUserID, Value: "from-cookie"})

	assert.Equal(t, "from-cookie", sessiontransport.ClientSubject(r, session.TypeUser))
}

func TestAcceptedCookies(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, sessiontransport.AcceptedCookies(r))

	r.Header.Set(session.HeaderCookiesAccepted, "yes")
	assert.False(t, sessiontransport.AcceptedCookies(r), "only the literal true counts")

	r.Header.Set(session.HeaderCookiesAccepted, "true")
	assert.True(t, sessiontransport.AcceptedCookies(r))

	viaCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	viaCookie.AddCookie(&http.Cookie{Name: session.HeaderCookiesAccepted, Value: "true"})
	assert.True(t, sessiontransport.AcceptedCookies(viaCookie))
}

func TestExtractBearer(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, sessiontransport.ExtractBearer(r, session.TypeUser))

	r.Header.Set("Authorization", "Bearer the-token")
	assert.Equal(t, "the-token", sessiontransport.ExtractBearer(r, session.TypeUser))

	r.Header.Set("Authorization", "bearer lower-scheme")
	assert.Equal(t, "lower-scheme", sessiontransport.ExtractBearer(r, session.TypeUser))

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, sessiontransport.ExtractBearer(r, session.TypeUser))

	r.Header.Set("Authorization", "just-a-token")
	assert.Empty(t, sessiontransport.ExtractBearer(r, session.TypeUser))

	api := httptest.NewRequest(http.MethodGet, "/", nil)
	api.Header.Set(session.HeaderAPIAuthorization, "Bearer api-token")
	assert.Equal(t, "api-token", sessiontransport.ExtractBearer(api, session.TypeAPI))
	assert.Empty(t, sessiontransport.ExtractBearer(api, session.TypeUser))
}

func TestApplyWritesHeadersAndCookies(t *testing.T) {
	t.Parallel()

	h := sessiontransport.SessionHeaders(sessiontransport.HeadersOptions{
		CookiesAccepted: true,
		Type:            session.TypeUser,
		Status:          session.StatusActive,
		Subject:         "user-1",
	})

	w := httptest.NewRecorder()
	h.Apply(w)

	assert.Equal(t, "active", w.Header().Get(session.HeaderUserStatus))
	assert.Equal(t, "user-1", w.Header().Get(session.HeaderUserID))
	assert.Len(t, w.Header().Values("Set-Cookie"), 4)
}
