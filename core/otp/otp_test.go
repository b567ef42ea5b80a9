package otp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/otp"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewLocal()

	code, err := otp.Generate(ctx, store, otp.Options{Target: "a@b"})
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}

	ok, err := otp.Verify(ctx, store, "a@b", "000000x")
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must fail")

	ok, err = otp.Verify(ctx, store, "a@b", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = otp.Verify(ctx, store, "a@b", code)
	require.NoError(t, err)
	assert.False(t, ok, "codes are single-use")
}

func TestVerifyEmptyCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewLocal()

	_, err := otp.Generate(ctx, store, otp.Options{Target: "a@b"})
	require.NoError(t, err)

	ok, err := otp.Verify(ctx, store, "a@b", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnknownTarget(t *testing.T) {
	t.Parallel()

	ok, err := otp.Verify(context.Background(), cache.NewLocal(), "nobody", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateCustomLength(t *testing.T) {
	t.Parallel()

	code, err := otp.Generate(context.Background(), cache.NewLocal(), otp.Options{
		Target: "a@b",
		Length: 8,
	})
	require.NoError(t, err)
	assert.Len(t, code, 8)
}

func TestGenerateRequiresTarget(t *testing.T) {
	t.Parallel()

	_, err := otp.Generate(context.Background(), cache.NewLocal(), otp.Options{})
	assert.Error(t, err)
}

func TestCodeExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewLocal()

	code, err := otp.Generate(ctx, store, otp.Options{Target: "a@b", TTL: 30 * time.Millisecond})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	ok, err := otp.Verify(ctx, store, "a@b", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegenerateReplacesCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := cache.NewLocal()

	first, err := otp.Generate(ctx, store, otp.Options{Target: "a@b"})
	require.NoError(t, err)
	second, err := otp.Generate(ctx, store, otp.Options{Target: "a@b"})
	require.NoError(t, err)

	if first != second {
		ok, err := otp.Verify(ctx, store, "a@b", first)
		require.NoError(t, err)
		assert.False(t, ok, "replaced code must not verify")
	}

	ok, err := otp.Verify(ctx, store, "a@b", second)
	require.NoError(t, err)
	assert.True(t, ok)
}
