package config

import "sort"

// Presets are named parameter sets per model, loosely matched to
// familiar disease profiles.
var Presets = map[string]map[string]*Config{
	"si": {
		"rumor": {
			Model: "si", Integrator: "rk4", Beta: 0.3, Dt: 0.1, Duration: 200.0,
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"slow-burn": {
			Model: "si", Integrator: "rk4", Beta: 0.05, Dt: 0.1, Duration: 1000.0,
			InitState: InitStateConfig{S: 0.999, I: 0.001},
		},
	},
	"sis": {
		"common-cold": {
			Model: "sis", Integrator: "rk4", Beta: 0.3, Gamma: 0.15, Dt: 0.1, Duration: 300.0,
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"endemic": {
			Model: "sis", Integrator: "rk4", Beta: 0.5, Gamma: 0.1, Dt: 0.1, Duration: 300.0,
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"fadeout": {
			Model: "sis", Integrator: "rk4", Beta: 0.1, Gamma: 0.2, Dt: 0.1, Duration: 300.0,
			InitState: InitStateConfig{S: 0.9, I: 0.1},
		},
	},
	"sir": {
		"flu": {
			Model: "sir", Integrator: "rk4", Beta: 0.3, Gamma: 0.1, Dt: 0.1, Duration: 200.0,
			InitState: InitStateConfig{S: 0.99, I: 0.01},
		},
		"measles": {
			Model: "sir", Integrator: "rk4", Beta: 0.9, Gamma: 0.1, Dt: 0.05, Duration: 100.0,
			InitState: InitStateConfig{S: 0.999, I: 0.001},
		},
		"contained": {
			Model: "sir", Integrator: "rk4", Beta: 0.08, Gamma: 0.1, Dt: 0.1, Duration: 400.0,
			InitState: InitStateConfig{S: 0.95, I: 0.05},
		},
	},
}

func GetPreset(model, name string) *Config {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	return group[name]
}

func ListPresets(model string) []string {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
