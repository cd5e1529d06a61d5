package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_HasPrefixAndLength(t *testing.T) {
	got := New(PrefixServiceCall)

	require.True(t, strings.HasPrefix(got, "call_"))
	assert.Len(t, got, len("call_")+DefaultLength)
	assert.NotEqual(t, got, New(PrefixServiceCall))
}

func TestParsePrefixedID(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrefix string
		wantShort  string
		wantErr    bool
	}{
		{name: "valid", input: "inv_abc123", wantPrefix: "inv", wantShort: "abc123"},
		{name: "extra underscores stay in short id", input: "ws_a_b", wantPrefix: "ws", wantShort: "a_b"},
		{name: "no underscore", input: "abc", wantErr: true},
		{name: "empty prefix", input: "_abc", wantErr: true},
		{name: "empty short id", input: "call_", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, short, err := ParsePrefixedID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.wantShort, short)
		})
	}
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, ValidatePrefix("sch_x1", PrefixSchool))
	assert.Error(t, ValidatePrefix("call_x1", PrefixSchool))
}
