package ttl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/pkg/ttl"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0", 0},
		{"90", 90 * time.Second},
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"12h", 12 * time.Hour},
		{"30d", 30 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"6mo", 6 * 30 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{" 1h ", time.Hour},
		{"1H", time.Hour},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ttl.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "h", "-5s", "10x", "1.5h", "mo"} {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := ttl.Parse(in)
			assert.ErrorIs(t, err, ttl.ErrInvalidTTL)
		})
	}
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	s, err := ttl.Seconds("1h")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), s)
}
