package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/keyring"
	"github.com/zanix-io/auth/core/kv"
	"github.com/zanix-io/auth/core/session"
)

func generatePair(t *testing.T) *session.TokenPair {
	t.Helper()
	ctx := newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))
	pair, err := session.GenerateSessionTokens(ctx, session.TokenOptions{
		Subject: "user-1",
		Payload: map[string]any{"permissions": []string{"read"}},
	})
	require.NoError(t, err)
	return pair
}

func TestRefreshSessionTokens(t *testing.T) {
	setupKeys(t)
	pair := generatePair(t)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/refresh", nil))
	result, err := session.RefreshSessionTokens(ctx, session.RefreshOptions{Token: pair.RefreshToken})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, pair.RefreshToken, result.OldToken)
	assert.Equal(t, "user-1", result.Claims.Subject)

	// The regenerated session carries the original options.
	sess, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", sess.Subject)
	assert.Equal(t, []string{"read"}, sess.Scope)
	assert.Equal(t, session.StatusActive, sess.Status)
}

func TestRefreshFromCookie(t *testing.T) {
	setupKeys(t)
	pair := generatePair(t)

	r := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	r.AddCookie(&http.Cookie{Name: session.HeaderAppToken, Value: pair.RefreshToken})

	result, err := session.RefreshSessionTokens(newTestContext(r), session.RefreshOptions{})
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, result.OldToken)
}

func TestRefreshMissingToken(t *testing.T) {
	setupKeys(t)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/refresh", nil))
	_, err := session.RefreshSessionTokens(ctx, session.RefreshOptions{})
	assert.ErrorIs(t, err, session.ErrMissingRefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	setupKeys(t)
	pair := generatePair(t)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/refresh", nil))
	_, err := session.RefreshSessionTokens(ctx, session.RefreshOptions{Token: pair.AccessToken})
	assert.ErrorIs(t, err, session.ErrNotRefreshToken)
}

func TestRefreshConsultsBlocklist(t *testing.T) {
	setupKeys(t)
	pair := generatePair(t)

	local := cache.NewLocal()
	durable := kv.NewMemory()

	_, err := session.RevokeAppTokens(
		newTestContext(httptest.NewRequest(http.MethodPost, "/", nil)),
		[]string{pair.RefreshToken}, local, durable,
	)
	require.NoError(t, err)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/refresh", nil))
	_, err = session.RefreshSessionTokens(ctx, session.RefreshOptions{
		Token: pair.RefreshToken,
		Cache: local,
		KV:    durable,
	})
	assert.ErrorIs(t, err, session.ErrTokenRevoked)
}

func TestRefreshResolvesKeyByKid(t *testing.T) {
	keyring.ResetCache()
	t.Cleanup(keyring.ResetCache)
	t.Setenv("JWT_KEY_V1", "first-secret")
	t.Setenv("JWT_KEY_V2", "second-secret")
	t.Setenv("JWK_ROTATION_CYCLE", "0")

	pair := generatePair(t)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/refresh", nil))
	result, err := session.RefreshSessionTokens(ctx, session.RefreshOptions{Token: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestRevokeSessionToken(t *testing.T) {
	setupKeys(t)
	pair := generatePair(t)

	local := cache.NewLocal()
	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/logout", nil))

	err := session.RevokeSessionToken(ctx, session.RevokeOptions{
		Token: pair.RefreshToken,
		Cache: local,
	})
	require.NoError(t, err)

	sess, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session.StatusRevoked, sess.Status)
	assert.Zero(t, sess.ExpiresAt)

	// A revoked refresh token cannot be exchanged anymore.
	_, err = session.RefreshSessionTokens(ctx, session.RefreshOptions{
		Token: pair.RefreshToken,
		Cache: local,
		KV:    kv.NewMemory(),
	})
	assert.ErrorIs(t, err, session.ErrTokenRevoked)
}

func TestRevokeSessionTokenMissing(t *testing.T) {
	setupKeys(t)

	ctx := newTestContext(httptest.NewRequest(http.MethodPost, "/logout", nil))
	err := session.RevokeSessionToken(ctx, session.RevokeOptions{Cache: cache.NewLocal()})
	assert.ErrorIs(t, err, session.ErrMissingRefreshToken)
}
