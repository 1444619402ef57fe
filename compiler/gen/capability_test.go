package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitySplit(t *testing.T) {
	tests := []struct {
		capability Capability
		expected   []string
	}{
		{"types", []string{"types"}},
		{"types:User", []string{"types", "User"}},
		{"schema:validator:builder", []string{"schema", "validator", "builder"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.capability), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.capability.Split())
		})
	}
}

func TestCapabilityParent(t *testing.T) {
	assert.Equal(t, Capability("schema:validator"), Capability("schema:validator:builder").Parent())
	assert.Equal(t, Capability("schema"), Capability("schema:validator").Parent())
	assert.Equal(t, Capability(""), Capability("schema").Parent())
}

func TestCapabilityExpand(t *testing.T) {
	t.Run("three segments", func(t *testing.T) {
		expanded := Capability("a:b:c").Expand()

		assert.Equal(t, []Capability{"a:b:c", "a:b", "a"}, expanded)
	})

	t.Run("single segment expands to itself", func(t *testing.T) {
		assert.Equal(t, []Capability{"types"}, Capability("types").Expand())
	})
}

func TestCapabilityHasPrefix(t *testing.T) {
	tests := []struct {
		capability Capability
		prefix     Capability
		expected   bool
	}{
		{"types:User", "types", true},
		{"types:User", "types:User", true},
		{"types", "types:User", false},
		{"typescript", "types", false},
		{"schema:validator:User", "schema:validator", true},
		{"schema:validator:User", "schema:valid", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.capability)+"/"+string(tt.prefix), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.capability.HasPrefix(tt.prefix))
		})
	}
}

func TestCapabilityValidate(t *testing.T) {
	t.Run("accepts hierarchical names", func(t *testing.T) {
		for _, c := range []Capability{"types", "types:User", "schema:validator:builder"} {
			require.NoError(t, c.Validate(), "capability %q", c)
		}
	})

	t.Run("rejects empty capability", func(t *testing.T) {
		assert.Error(t, Capability("").Validate())
	})

	t.Run("rejects empty segment", func(t *testing.T) {
		assert.Error(t, Capability("types:").Validate())
		assert.Error(t, Capability(":types").Validate())
		assert.Error(t, Capability("types::User").Validate())
	})

	t.Run("rejects whitespace", func(t *testing.T) {
		assert.Error(t, Capability("types :User").Validate())
		assert.Error(t, Capability(" types").Validate())
	})
}
