package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/middleware"
)

func anonymousRequest(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", ip)
	r.Header.Set("User-Agent", "test-agent")
	return r
}

func TestRateLimitAnonymousFlow(t *testing.T) {
	t.Parallel()

	guard := middleware.RateLimit[*handler.Ctx](middleware.RateLimitConfig{
		Cache:          cache.NewLocal(),
		AnonymousLimit: 2,
	})

	for i := 0; i < 2; i++ {
		w := serve(t, anonymousRequest("203.0.113.9"), okHandler, guard)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get(middleware.HeaderRateLimitLimit))
		// The reported count is the pre-increment value, so both requests
		// leave one visible slot.
		assert.Equal(t, "1", w.Header().Get(middleware.HeaderRateLimitRemaining))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRateLimitReset))

		// The derived anonymous session is serialized by the interceptor.
		assert.True(t, strings.HasPrefix(w.Header().Get(session.HeaderUserID), "anonymous-"))
	}

	w := serve(t, anonymousRequest("203.0.113.9"), okHandler, guard)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "blocked", w.Header().Get(session.HeaderUserStatus))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRetryAfter))
}

func TestRateLimitIsolatesClients(t *testing.T) {
	t.Parallel()

	guard := middleware.RateLimit[*handler.Ctx](middleware.RateLimitConfig{
		Cache:          cache.NewLocal(),
		AnonymousLimit: 1,
	})

	w := serve(t, anonymousRequest("203.0.113.1"), okHandler, guard)
	require.Equal(t, http.StatusOK, w.Code)

	// A different client gets its own window.
	w = serve(t, anonymousRequest("203.0.113.2"), okHandler, guard)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, anonymousRequest("203.0.113.1"), okHandler, guard)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitDisallowAnonymous(t *testing.T) {
	t.Parallel()

	guard := middleware.RateLimit[*handler.Ctx](middleware.RateLimitConfig{
		Cache:             cache.NewLocal(),
		DisallowAnonymous: true,
	})

	w := serve(t, anonymousRequest("203.0.113.3"), okHandler, guard)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "failed", w.Header().Get(session.HeaderUserStatus))
}

func TestRateLimitUsesSessionQuota(t *testing.T) {
	t.Parallel()

	guard := middleware.RateLimit[*handler.Ctx](middleware.RateLimitConfig{Cache: cache.NewLocal()})

	withSession := func(next handler.HandlerFunc[*handler.Ctx]) handler.HandlerFunc[*handler.Ctx] {
		return func(ctx *handler.Ctx) handler.Response {
			session.Assign(ctx, &session.Session{
				ID:        "sess-quota",
				Type:      session.TypeUser,
				RateLimit: 1,
				Status:    session.StatusActive,
			})
			return next(ctx)
		}
	}

	w := serve(t, anonymousRequest("203.0.113.4"), okHandler, withSession, guard)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(middleware.HeaderRateLimitLimit))

	w = serve(t, anonymousRequest("203.0.113.4"), okHandler, withSession, guard)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
