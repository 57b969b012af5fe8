package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/nchain/internal/config"
)

func parsedCommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	root := newRootCmd()
	cmd, _, err := root.Find([]string{name})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(parsedCommand(t, "run"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfigFileOverlaysPreset(t *testing.T) {
	path := writeConfig(t, "gravity: 3.7\n")

	cfg, err := resolveConfig(parsedCommand(t, "run", "--preset", "triple/fold", "--config", path))
	require.NoError(t, err)

	fold := config.GetPreset("triple", "fold")
	require.NotNil(t, fold)
	assert.Equal(t, 3.7, cfg.Gravity)
	assert.Equal(t, fold.InitState.Thetas, cfg.InitState.Thetas)
	assert.Equal(t, fold.InitState.ThetaDots, cfg.InitState.ThetaDots)
	assert.Equal(t, fold.Solver, cfg.Solver)
	assert.Equal(t, fold.Duration, cfg.Duration)
}

func TestResolveConfigFlagsWin(t *testing.T) {
	path := writeConfig(t, "gravity: 3.7\ndt: 0.004\n")

	cfg, err := resolveConfig(parsedCommand(t, "compare",
		"--preset", "triple/fold", "--config", path, "--gravity", "1.5", "--solver", "leapfrog"))
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Gravity)
	assert.Equal(t, "leapfrog", cfg.Solver)
	assert.Equal(t, 0.004, cfg.Dt)
	assert.Equal(t, 3, cfg.Links())
}

func TestResolveConfigThetasStartAtRest(t *testing.T) {
	cfg, err := resolveConfig(parsedCommand(t, "run", "--preset", "triple/fold", "--thetas", "0.1,0.2"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, cfg.InitState.Thetas)
	assert.Equal(t, []float64{0, 0}, cfg.InitState.ThetaDots)

	path := writeConfig(t, "init_state:\n  thetas: [0.3, 0.4, 0.5, 0.6]\n")
	cfg, err = resolveConfig(parsedCommand(t, "run", "--preset", "triple/fold", "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Links())
	assert.Equal(t, []float64{0, 0, 0, 0}, cfg.InitState.ThetaDots)
}

func TestResolveConfigRejectsBadInput(t *testing.T) {
	_, err := resolveConfig(parsedCommand(t, "run", "--preset", "triple/nope"))
	assert.Error(t, err)

	_, err = resolveConfig(parsedCommand(t, "run", "--dt", "0"))
	assert.Error(t, err)

	_, err = resolveConfig(parsedCommand(t, "run", "--thetas", "0.1,0.2", "--theta-dots", "1"))
	assert.Error(t, err)

	_, err = resolveConfig(parsedCommand(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}
