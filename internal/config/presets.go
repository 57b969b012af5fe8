package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

func preset(solver string, dt, duration float64, thetas, dots []float64) *Config {
	cfg := DefaultConfig()
	cfg.Solver = solver
	cfg.Dt = dt
	cfg.Duration = duration
	cfg.InitState = InitStateConfig{Thetas: thetas, ThetaDots: dots}
	return cfg
}

func curl(n int) []float64 {
	thetas := make([]float64, n)
	for i := range thetas {
		thetas[i] = math.Pi / 2 * float64(i+1) / float64(n)
	}
	return thetas
}

var Presets = map[string]map[string]*Config{
	"single": {
		"small":    preset("rk4", 0.001, 20, []float64{0.2}, []float64{0}),
		"large":    preset("rk4", 0.001, 20, []float64{2.5}, []float64{0}),
		"spinning": preset("leapfrog", 0.001, 30, []float64{0.1}, []float64{8}),
	},
	"double": {
		"symmetric": preset("rk4", 0.001, 30, []float64{1.5, 1.5}, []float64{0, 0}),
		"chaos":     preset("rk4", 0.001, 60, []float64{3.0, 3.0}, []float64{0, 0}),
		"gentle":    preset("symplectic_euler", 0.001, 30, []float64{0.3, 0.3}, []float64{0, 0}),
	},
	"triple": {
		"fold":  preset("rk4", 0.001, 30, []float64{math.Pi / 2, -math.Pi / 2, math.Pi / 2}, []float64{0, 0, 0}),
		"whirl": preset("leapfrog", 0.0005, 20, []float64{0, 0, 0}, []float64{0, 0, 12}),
	},
	"chain": {
		"curl":  preset("rk4", 0.0005, 20, curl(10), make([]float64, 10)),
		"drape": preset("leapfrog", 0.0005, 20, slices.Repeat([]float64{math.Pi / 2}, 20), make([]float64, 20)),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// LookupPreset resolves a "family/name" reference.
func LookupPreset(ref string) (*Config, error) {
	family, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset must look like family/name, got %q", ref)
	}
	cfg := GetPreset(family, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", ref, family, ListPresets(family))
	}
	return cfg, nil
}

// ListPresets returns the preset names of a family in sorted order.
func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Families returns the preset families in sorted order.
func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
