package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
)

func TestGuard_Evaluate(t *testing.T) {
	opts, err := domain.GamaSchema().Validate(map[string]string{"sqlite3": "true"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		source   string
		env      domain.Environment
		expected bool
	}{
		{"test native", "should_test && !cross_building", domain.Environment{ShouldTest: true}, true},
		{"test cross", "should_test && !cross_building", domain.Environment{ShouldTest: true, CrossBuilding: true}, false},
		{"install off", "should_install", domain.Environment{}, false},
		{"option lookup", `options["sqlite3"] == "true"`, domain.Environment{}, true},
		{"target match", `target contains "wasm"`, domain.Environment{Target: "Emscripten-wasm"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := domain.NewGuard(tt.source)
			require.NoError(t, err)

			ok, err := g.Evaluate(tt.env, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.source, g.String())
		})
	}
}

func TestGuard_CompileError(t *testing.T) {
	_, err := domain.NewGuard("should_test &&")
	assert.Error(t, err)

	_, err = domain.NewGuard(`"not a bool"`)
	assert.Error(t, err)

	assert.Panics(t, func() { domain.MustGuard("unknown_variable") })
}

func TestGuard_ZeroValueIsTrue(t *testing.T) {
	var g domain.Guard
	ok, err := g.Evaluate(domain.Environment{}, domain.OptionSet{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPhase_Order(t *testing.T) {
	assert.Equal(t, 0, domain.PhaseConfigure.Order())
	assert.Equal(t, 3, domain.PhaseInstall.Order())
	assert.Equal(t, -1, domain.Phase("package").Order())
}
