package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "rk4", cfg.Solver)
	assert.Greater(t, cfg.Dt, 0.0)
	assert.Greater(t, cfg.Duration, 0.0)
	assert.Equal(t, 2, cfg.Links())
	require.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	doc := `
solver: leapfrog
dt: 0.002
init_state:
  thetas: [0.1, 0.2, 0.3]
  theta_dots: [0, 0, 1]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "leapfrog", cfg.Solver)
	assert.Equal(t, 0.002, cfg.Dt)
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, cfg.InitState.Thetas)
	assert.Equal(t, []float64{0, 0, 1}, cfg.InitState.ThetaDots)

	kind, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, integrators.Leapfrog, kind)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: [not, a, number]"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadIntoOverlaysBase(t *testing.T) {
	base := GetPreset("triple", "fold")
	require.NotNil(t, base)
	before := base.Clone()

	path := filepath.Join(t.TempDir(), "gravity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gravity: 3.7\n"), 0644))

	cfg, err := LoadInto(path, base)
	require.NoError(t, err)
	assert.Equal(t, 3.7, cfg.Gravity)
	assert.Equal(t, 3, cfg.Links())
	assert.Equal(t, base.InitState.ThetaDots, cfg.InitState.ThetaDots)
	assert.Equal(t, before, base)

	path = filepath.Join(t.TempDir(), "thetas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("init_state:\n  thetas: [0.1]\n"), 0644))
	cfg, err = LoadInto(path, base)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1}, cfg.InitState.Thetas)
	assert.Equal(t, []float64{0}, cfg.InitState.ThetaDots)
	require.NoError(t, cfg.Validate())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("triple", "fold")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty thetas", func(c *Config) { c.InitState.Thetas = nil; c.InitState.ThetaDots = nil }, dynamo.ErrInvalidArgument},
		{"mismatched arrays", func(c *Config) { c.InitState.ThetaDots = []float64{0} }, dynamo.ErrInvalidArgument},
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrInvalidArgument},
		{"negative duration", func(c *Config) { c.Duration = -1 }, dynamo.ErrInvalidArgument},
		{"zero arm", func(c *Config) { c.ArmLength = 0 }, dynamo.ErrInvalidArgument},
		{"zero fps", func(c *Config) { c.FPS = 0 }, dynamo.ErrInvalidArgument},
		{"negative trace", func(c *Config) { c.TraceLength = -5 }, dynamo.ErrInvalidArgument},
		{"zero frame clamp", func(c *Config) { c.MaxFrameDt = 0 }, dynamo.ErrInvalidArgument},
		{"unknown solver", func(c *Config) { c.Solver = "rk45" }, dynamo.ErrUnknownSolver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)

			c, err := cfg.NewChain()
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewChainFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 3
	cfg.ArmLength = 4

	c, err := cfg.NewChain()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3.0, c.Gravity())
	assert.Equal(t, 2.0, c.LinkLength())
	assert.Equal(t, integrators.RungeKutta4, c.Kind())

	run := cfg.RunConfig()
	assert.Equal(t, cfg.Dt, run.Dt)
	assert.True(t, run.ValidateState)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("single", "small")
	require.NotNil(t, cfg)
	assert.Equal(t, []float64{0.2}, cfg.InitState.Thetas)

	// Callers get their own copy.
	cfg.InitState.Thetas[0] = 9
	assert.Equal(t, 0.2, GetPreset("single", "small").InitState.Thetas[0])
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("single", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "small"))
}

func TestEveryPresetIsValid(t *testing.T) {
	for _, family := range Families() {
		for _, name := range ListPresets(family) {
			assert.NoError(t, GetPreset(family, name).Validate(), "%s/%s", family, name)
		}
	}
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"chaos", "gentle", "symmetric"}, ListPresets("double"))
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Equal(t, []string{"chain", "double", "single", "triple"}, Families())
}

func TestLookupPreset(t *testing.T) {
	cfg, err := LookupPreset("triple/fold")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Links())

	_, err = LookupPreset("triple")
	assert.Error(t, err)

	_, err = LookupPreset("triple/nope")
	assert.ErrorContains(t, err, "fold")
}
