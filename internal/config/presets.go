package config

import (
	"sort"

	"github.com/san-kum/odelab/internal/dynamo"
)

var (
	plane      = dynamo.Region{XMin: -10, XMax: 10, YMin: -10, YMax: 10, Grid: 20}
	unitPlane  = dynamo.Region{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Grid: 20}
	quadrant   = dynamo.Region{XMin: 0, XMax: 10, YMin: 0, YMax: 10, Grid: 20}
	angle      = dynamo.Region{XMin: -7, XMax: 7, YMin: -6, YMax: 6, Grid: 28}
	population = dynamo.Region{XMin: 0, XMax: 150, YMin: 0, YMax: 1, Grid: 30}
	compartments = dynamo.Region{XMin: 0, XMax: 1000, YMin: 0, YMax: 1000, Grid: 10}
)

var Presets = map[string]map[string]*Config{
	"linear_spiral": {
		"stable": {System: "linear_spiral", Dt: 0.01, Duration: 30, InitState: []float64{2, 0}, Region: unitPlane},
		"unstable": {
			System: "linear_spiral", Params: map[string]float64{"a": 0.1}, Dt: 0.01, Duration: 20,
			InitState: []float64{0.5, 0}, Region: plane,
		},
	},
	"saddle": {
		"near_stable_manifold": {System: "saddle", Dt: 0.01, Duration: 5, InitState: []float64{0.01, 3}, Region: unitPlane},
	},
	"center": {
		"unit_circle": {System: "center", Dt: 0.01, Duration: 6.283185307179586, InitState: []float64{1, 0}, Region: unitPlane},
	},
	"vanderpol": {
		"limit_cycle": {System: "vanderpol", Dt: 0.01, Duration: 30, InitState: []float64{0.5, 0}, Region: unitPlane},
		"relaxation": {
			System: "vanderpol", Params: map[string]float64{"mu": 5}, Dt: 0.005, Duration: 50,
			InitState: []float64{2, 0}, Region: plane,
		},
	},
	"lotka_volterra": {
		"classic": {System: "lotka_volterra", Dt: 0.01, Duration: 30, InitState: []float64{2, 1}, Region: quadrant},
		"near_equilibrium": {System: "lotka_volterra", Dt: 0.01, Duration: 30, InitState: []float64{1.1, 2}, Region: quadrant},
	},
	"lotka_volterra_logistic": {
		"damped": {System: "lotka_volterra_logistic", Dt: 0.01, Duration: 60, InitState: []float64{2, 1}, Region: quadrant},
	},
	"competition": {
		"coexistence": {System: "competition", Dt: 0.01, Duration: 40, InitState: []float64{1, 1}, Region: quadrant},
		"exclusion": {
			System: "competition", Params: map[string]float64{"a12": 1.5, "a21": 1.5}, Dt: 0.01, Duration: 40,
			InitState: []float64{3, 2}, Region: quadrant,
		},
	},
	"duffing": {
		"double_well": {System: "duffing", Dt: 0.01, Duration: 40, InitState: []float64{0.1, 0.5}, Region: unitPlane},
		"undamped": {
			System: "duffing", Params: map[string]float64{"delta": 0}, Dt: 0.01, Duration: 40,
			InitState: []float64{1.5, 0}, Region: unitPlane,
		},
	},
	"pendulum": {
		"small": {System: "pendulum", Dt: 0.01, Duration: 20, InitState: []float64{0.2, 0}, Region: angle},
		"large": {System: "pendulum", Dt: 0.01, Duration: 20, InitState: []float64{2.5, 0}, Region: angle},
		"spinning": {System: "pendulum", Dt: 0.01, Duration: 30, InitState: []float64{0.1, 8}, Region: angle},
	},
	"richardson": {
		"stable_race": {System: "richardson", Dt: 0.01, Duration: 20, InitState: []float64{0.5, 3}, Region: quadrant},
		"runaway": {
			System: "richardson", Params: map[string]float64{"k": 2, "l": 2}, Dt: 0.01, Duration: 5,
			InitState: []float64{1, 1}, Region: plane,
		},
	},
	"exponential": {
		"growth": {System: "exponential", Dt: 0.01, Duration: 5, InitState: []float64{10}, Region: population},
	},
	"logistic": {
		"growth": {System: "logistic", Dt: 0.01, Duration: 30, InitState: []float64{10}, Region: population},
		"overshoot": {System: "logistic", Dt: 0.01, Duration: 30, InitState: []float64{140}, Region: population},
	},
	"exponential_harvest": {
		"balanced": {System: "exponential_harvest", Dt: 0.01, Duration: 10, InitState: []float64{20}, Region: population},
		"collapse": {System: "exponential_harvest", Dt: 0.01, Duration: 10, InitState: []float64{15}, Region: population},
	},
	"logistic_harvest": {
		"sustainable": {System: "logistic_harvest", Dt: 0.01, Duration: 40, InitState: []float64{50}, Region: population},
		"overharvest": {
			System: "logistic_harvest", Params: map[string]float64{"h": 20}, Dt: 0.01, Duration: 40,
			InitState: []float64{50}, Region: population,
		},
	},
	"proportional_harvest": {
		"effort": {System: "proportional_harvest", Dt: 0.01, Duration: 40, InitState: []float64{10}, Region: population},
	},
	"allee": {
		"above_threshold": {System: "allee", Dt: 0.01, Duration: 40, InitState: []float64{30}, Region: population},
		"below_threshold": {System: "allee", Dt: 0.01, Duration: 40, InitState: []float64{15}, Region: population},
	},
	"si": {
		"outbreak": {System: "si", Dt: 0.05, Duration: 60, InitState: []float64{999, 1}, Region: compartments},
	},
	"sis": {
		"endemic": {System: "sis", Dt: 0.05, Duration: 100, InitState: []float64{999, 1}, Region: compartments},
	},
	"sir": {
		"epidemic": {System: "sir", Dt: 0.05, Duration: 160, InitState: []float64{999, 1, 0}},
		"fizzle": {
			System: "sir", Params: map[string]float64{"beta": 0.00005}, Dt: 0.05, Duration: 160,
			InitState: []float64{999, 1, 0},
		},
	},
}

// GetPreset returns a copy of the named preset, completed with the default
// integrator, storage and logging settings, or nil when it does not exist.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	p, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.Integrator == "" {
		cfg.Integrator = def.Integrator
	}
	if cfg.Region == (dynamo.Region{}) {
		cfg.Region = def.Region
	}
	cfg.DataDir = def.DataDir
	cfg.LogLevel = def.LogLevel
	return cfg
}

// ListPresets returns the preset names for a system in sorted order.
func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
