package scopes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanix-io/auth/pkg/scopes"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		required []string
		held     []string
		ok       bool
	}{
		{"empty required", nil, nil, true},
		{"empty required with held", nil, []string{"read"}, true},
		{"empty held", []string{"read"}, nil, false},
		{"wildcard", []string{"read", "write"}, []string{"*"}, true},
		{"exact match", []string{"read"}, []string{"read"}, true},
		{"partial overlap", []string{"read", "write"}, []string{"write", "admin"}, true},
		{"disjoint", []string{"read", "write"}, []string{"admin"}, false},
		{"duplicates in held", []string{"read"}, []string{"read", "read"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := scopes.Validate(tt.required, tt.held)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateReasonMessage(t *testing.T) {
	t.Parallel()

	err := scopes.Validate([]string{"a", "b"}, []string{"c"})
	require.Error(t, err)
	assert.Equal(t, "Insufficient permissions. Requires any of [a, b].", err.Error())
}
