package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewConfigError("SourceExt", "ts", "extension must start with a dot")

		assert.Contains(t, err.Error(), "typeweave: config error")
		assert.Contains(t, err.Error(), "SourceExt")
		assert.Contains(t, err.Error(), "ts")
		assert.Contains(t, err.Error(), "extension must start with a dot")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Plugins", nil, "at least one plugin is required")

		assert.Contains(t, err.Error(), "Plugins")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Header", nil, "boom")

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Header", nil, "boom")

		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other error")))
	})
}

func TestDuplicatePluginError(t *testing.T) {
	t.Run("Error message names the plugin", func(t *testing.T) {
		err := NewDuplicatePluginError("models")

		assert.Contains(t, err.Error(), "typeweave:")
		assert.Contains(t, err.Error(), `"models"`)
		assert.Contains(t, err.Error(), "registered twice")
	})

	t.Run("Is matches ErrDuplicatePlugin", func(t *testing.T) {
		err := NewDuplicatePluginError("models")

		assert.ErrorIs(t, err, ErrDuplicatePlugin)
	})

	t.Run("IsDuplicatePluginError helper", func(t *testing.T) {
		err := NewDuplicatePluginError("models")

		assert.True(t, IsDuplicatePluginError(err))
		assert.False(t, IsDuplicatePluginError(errors.New("other error")))
	})
}

func TestPluginConfigError(t *testing.T) {
	t.Run("Error message with field errors", func(t *testing.T) {
		err := NewPluginConfigError("validators", []FieldError{
			{Field: "library", Message: "unknown library \"joi\""},
			{Field: "coerce", Message: "expected bool"},
		}, nil)

		assert.Contains(t, err.Error(), "typeweave: invalid configuration")
		assert.Contains(t, err.Error(), `"validators"`)
		assert.Contains(t, err.Error(), "library")
		assert.Contains(t, err.Error(), "expected bool")
	})

	t.Run("Error message with cause only", func(t *testing.T) {
		cause := errors.New("yaml: unmarshal failed")
		err := NewPluginConfigError("routes", nil, cause)

		assert.Contains(t, err.Error(), `"routes"`)
		assert.Contains(t, err.Error(), "yaml: unmarshal failed")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("decode failed")
		err := NewPluginConfigError("routes", nil, cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrPluginConfig", func(t *testing.T) {
		err := NewPluginConfigError("routes", nil, nil)

		assert.ErrorIs(t, err, ErrPluginConfig)
	})

	t.Run("IsPluginConfigError helper", func(t *testing.T) {
		err := NewPluginConfigError("routes", nil, nil)

		assert.True(t, IsPluginConfigError(err))
		assert.False(t, IsPluginConfigError(errors.New("other error")))
	})
}

func TestConflictError(t *testing.T) {
	t.Run("Error message names both providers", func(t *testing.T) {
		err := NewConflictError("db", "client", "queries")

		assert.Equal(t, `typeweave: capability "db" provided by both "client" and "queries"`, err.Error())
	})

	t.Run("Is matches ErrCapabilityConflict", func(t *testing.T) {
		err := NewConflictError("types", "models", "legacy-models")

		assert.ErrorIs(t, err, ErrCapabilityConflict)
	})

	t.Run("IsConflictError helper", func(t *testing.T) {
		err := NewConflictError("types", "models", "legacy-models")

		assert.True(t, IsConflictError(err))
		assert.False(t, IsConflictError(errors.New("other error")))
	})
}

func TestUnsatisfiedError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewUnsatisfiedError("routes", "schema:validator")

		assert.Contains(t, err.Error(), `"schema:validator"`)
		assert.Contains(t, err.Error(), `"routes"`)
		assert.Contains(t, err.Error(), "not provided by any plugin")
	})

	t.Run("Is matches ErrNotSatisfied", func(t *testing.T) {
		err := NewUnsatisfiedError("routes", "schema:validator")

		assert.ErrorIs(t, err, ErrNotSatisfied)
	})

	t.Run("IsUnsatisfiedError helper", func(t *testing.T) {
		err := NewUnsatisfiedError("routes", "schema:validator")

		assert.True(t, IsUnsatisfiedError(err))
		assert.False(t, IsUnsatisfiedError(errors.New("other error")))
	})
}

func TestCycleError(t *testing.T) {
	t.Run("Error message lists the cycle in order", func(t *testing.T) {
		err := NewCycleError([]string{"alpha", "beta", "gamma"})

		assert.Equal(t, "typeweave: capability cycle: alpha -> beta -> gamma", err.Error())
	})

	t.Run("two plugin cycle", func(t *testing.T) {
		err := NewCycleError([]string{"alpha", "beta"})

		assert.Equal(t, "typeweave: capability cycle: alpha -> beta", err.Error())
	})

	t.Run("Is matches ErrCycle", func(t *testing.T) {
		err := NewCycleError([]string{"alpha", "beta"})

		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("IsCycleError helper", func(t *testing.T) {
		err := NewCycleError([]string{"alpha", "beta"})

		assert.True(t, IsCycleError(err))
		assert.False(t, IsCycleError(errors.New("other error")))
	})
}

func TestCollisionError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewCollisionError("User", "types:User", "types/User.ts", "models", "legacy")

		assert.Contains(t, err.Error(), "typeweave: symbol collision")
		assert.Contains(t, err.Error(), `"types:User"`)
		assert.Contains(t, err.Error(), `"User"`)
		assert.Contains(t, err.Error(), `"types/User.ts"`)
		assert.Contains(t, err.Error(), `"models"`)
		assert.Contains(t, err.Error(), `"legacy"`)
	})

	t.Run("Error message with capability only", func(t *testing.T) {
		err := &CollisionError{Capability: "types:User", Plugins: [2]string{"models", "legacy"}}

		assert.Contains(t, err.Error(), `"types:User"`)
		assert.NotContains(t, err.Error(), "in file")
	})

	t.Run("Is matches ErrCollision", func(t *testing.T) {
		err := NewCollisionError("User", "types:User", "", "models", "legacy")

		assert.ErrorIs(t, err, ErrCollision)
	})

	t.Run("IsCollisionError helper", func(t *testing.T) {
		err := NewCollisionError("User", "types:User", "", "models", "legacy")

		assert.True(t, IsCollisionError(err))
		assert.False(t, IsCollisionError(errors.New("other error")))
	})
}

func TestNotFoundError(t *testing.T) {
	t.Run("Error message with plugin", func(t *testing.T) {
		err := NewNotFoundError("types:Account", "queries")

		assert.Contains(t, err.Error(), `"types:Account"`)
		assert.Contains(t, err.Error(), `"queries"`)
		assert.Contains(t, err.Error(), "not declared")
	})

	t.Run("Error message without plugin", func(t *testing.T) {
		err := NewNotFoundError("types:Account", "")

		assert.Equal(t, `typeweave: capability "types:Account" is not declared`, err.Error())
	})

	t.Run("Is matches ErrNotFound", func(t *testing.T) {
		err := NewNotFoundError("types:Account", "")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("IsNotFoundError helper", func(t *testing.T) {
		err := NewNotFoundError("types:Account", "")

		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsNotFoundError(errors.New("other error")))
	})
}

func TestEmitConflictError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewEmitConflictError("types/index.ts", "User", "models", "validators", "duplicate named export")

		assert.Contains(t, err.Error(), "typeweave: emit conflict")
		assert.Contains(t, err.Error(), `"types/index.ts"`)
		assert.Contains(t, err.Error(), `"User"`)
		assert.Contains(t, err.Error(), `"models"`)
		assert.Contains(t, err.Error(), `"validators"`)
		assert.Contains(t, err.Error(), "duplicate named export")
	})

	t.Run("Error message with reason only", func(t *testing.T) {
		err := NewEmitConflictError("schema.graphql", "", "", "", "cannot mix raw text and structured fragments in one file")

		assert.Contains(t, err.Error(), `"schema.graphql"`)
		assert.Contains(t, err.Error(), "cannot mix raw text")
		assert.NotContains(t, err.Error(), "export")
	})

	t.Run("Is matches ErrEmitConflict", func(t *testing.T) {
		err := NewEmitConflictError("index.ts", "default", "a", "b", "")

		assert.ErrorIs(t, err, ErrEmitConflict)
	})

	t.Run("IsEmitConflictError helper", func(t *testing.T) {
		err := NewEmitConflictError("index.ts", "default", "a", "b", "")

		assert.True(t, IsEmitConflictError(err))
		assert.False(t, IsEmitConflictError(errors.New("other error")))
	})
}

func TestPluginError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("template render failed")
		err := NewPluginError("models", PhaseRendering, cause)

		assert.Contains(t, err.Error(), `plugin "models" failed`)
		assert.Contains(t, err.Error(), "during rendering")
		assert.Contains(t, err.Error(), "template render failed")
	})

	t.Run("Error message without phase", func(t *testing.T) {
		err := &PluginError{Plugin: "models", Cause: errors.New("boom")}

		assert.NotContains(t, err.Error(), "during")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("panic: nil fragment")
		err := NewPluginError("models", PhaseDeclaring, cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrPluginFailed", func(t *testing.T) {
		err := NewPluginError("models", PhaseDeclaring, nil)

		assert.ErrorIs(t, err, ErrPluginFailed)
	})

	t.Run("IsPluginError helper", func(t *testing.T) {
		err := NewPluginError("models", PhaseDeclaring, nil)

		assert.True(t, IsPluginError(err))
		assert.False(t, IsPluginError(errors.New("other error")))
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrInvalidConfig", ErrInvalidConfig, "typeweave: invalid configuration"},
		{"ErrDuplicatePlugin", ErrDuplicatePlugin, "typeweave: duplicate plugin"},
		{"ErrPluginConfig", ErrPluginConfig, "typeweave: invalid plugin configuration"},
		{"ErrCapabilityConflict", ErrCapabilityConflict, "typeweave: capability conflict"},
		{"ErrNotSatisfied", ErrNotSatisfied, "typeweave: capability not satisfied"},
		{"ErrCycle", ErrCycle, "typeweave: capability cycle"},
		{"ErrCollision", ErrCollision, "typeweave: symbol collision"},
		{"ErrNotFound", ErrNotFound, "typeweave: capability not found"},
		{"ErrEmitConflict", ErrEmitConflict, "typeweave: emit conflict"},
		{"ErrPluginFailed", ErrPluginFailed, "typeweave: plugin execution failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorTypeChecking(t *testing.T) {
	configErr := NewConfigError("Header", nil, "boom")
	dupErr := NewDuplicatePluginError("models")
	pluginCfgErr := NewPluginConfigError("models", nil, nil)
	conflictErr := NewConflictError("types", "a", "b")
	unsatErr := NewUnsatisfiedError("routes", "db:query")
	cycleErr := NewCycleError([]string{"a", "b"})
	collisionErr := NewCollisionError("User", "types:User", "", "a", "b")
	notFoundErr := NewNotFoundError("types:User", "")
	emitErr := NewEmitConflictError("index.ts", "User", "a", "b", "")
	pluginErr := NewPluginError("models", PhaseRendering, errors.New("boom"))

	tests := []struct {
		name            string
		err             error
		isConfig        bool
		isDuplicate     bool
		isPluginConfig  bool
		isConflict      bool
		isUnsatisfied   bool
		isCycle         bool
		isCollision     bool
		isNotFound      bool
		isEmitConflict  bool
		isPluginFailure bool
	}{
		{name: "ConfigError", err: configErr, isConfig: true},
		{name: "DuplicatePluginError", err: dupErr, isDuplicate: true},
		{name: "PluginConfigError", err: pluginCfgErr, isPluginConfig: true},
		{name: "ConflictError", err: conflictErr, isConflict: true},
		{name: "UnsatisfiedError", err: unsatErr, isUnsatisfied: true},
		{name: "CycleError", err: cycleErr, isCycle: true},
		{name: "CollisionError", err: collisionErr, isCollision: true},
		{name: "NotFoundError", err: notFoundErr, isNotFound: true},
		{name: "EmitConflictError", err: emitErr, isEmitConflict: true},
		{name: "PluginError", err: pluginErr, isPluginFailure: true},
		{name: "plain error", err: errors.New("plain")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isDuplicate, IsDuplicatePluginError(tt.err))
			assert.Equal(t, tt.isPluginConfig, IsPluginConfigError(tt.err))
			assert.Equal(t, tt.isConflict, IsConflictError(tt.err))
			assert.Equal(t, tt.isUnsatisfied, IsUnsatisfiedError(tt.err))
			assert.Equal(t, tt.isCycle, IsCycleError(tt.err))
			assert.Equal(t, tt.isCollision, IsCollisionError(tt.err))
			assert.Equal(t, tt.isNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.isEmitConflict, IsEmitConflictError(tt.err))
			assert.Equal(t, tt.isPluginFailure, IsPluginError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	t.Run("ConflictError fields", func(t *testing.T) {
		var target *ConflictError
		err := NewConflictError("db", "client", "queries")

		require.True(t, errors.As(err, &target))
		assert.Equal(t, Capability("db"), target.Capability)
		assert.Equal(t, [2]string{"client", "queries"}, target.Providers)
	})

	t.Run("CycleError fields", func(t *testing.T) {
		var target *CycleError
		err := NewCycleError([]string{"alpha", "beta", "gamma"})

		require.True(t, errors.As(err, &target))
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, target.Cycle)
	})

	t.Run("PluginError through wrapping", func(t *testing.T) {
		var target *PluginError
		inner := NewPluginError("models", PhaseDeclaring, errors.New("boom"))
		err := fmt.Errorf("run failed: %w", inner)

		require.True(t, errors.As(err, &target))
		assert.Equal(t, "models", target.Plugin)
		assert.Equal(t, PhaseDeclaring, target.Phase)
	})
}
