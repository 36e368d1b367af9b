package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/optim"
)

// addSimFlags registers the flags every simulating command shares.
func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "time step")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.StringVar(&integrator, "integrator", "rk4", "rk4 or euler")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.StringSliceVarP(&params, "param", "p", nil, "parameter override name=value (repeatable)")
	f.Float64SliceVar(&initState, "init", nil, "initial state, comma separated")
	addRegionFlags(cmd)
}

func addRegionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64SliceVar(&region, "region", nil, "search region xmin,xmax,ymin,ymax")
	f.IntVar(&grid, "grid", 20, "lattice divisions per axis")
}

// resolveConfig layers preset, positional system and flags over the base
// settings and validates the result.
func resolveConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := base.Clone()
	if system != "" && system != cfg.System {
		cfg.System = system
		cfg.Params = nil
		cfg.InitState = nil
	}

	if preset != "" {
		p := config.GetPreset(cfg.System, preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %q for %s (available: %v)",
				dynamo.ErrInvalidConfig, preset, cfg.System, config.ListPresets(cfg.System))
		}
		p.DataDir, p.LogLevel, p.LogFile = cfg.DataDir, cfg.LogLevel, cfg.LogFile
		cfg = p
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("init") {
		cfg.InitState = append([]float64(nil), initState...)
	}
	if len(params) > 0 {
		overrides, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(overrides))
		}
		for k, v := range overrides {
			cfg.Params[k] = v
		}
	}
	if f.Changed("region") {
		r, err := parseRegion(region)
		if err != nil {
			return nil, err
		}
		r.Grid = cfg.Region.Grid
		cfg.Region = r
	}
	if f.Changed("grid") {
		cfg.Region.Grid = grid
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q is not name=value", dynamo.ErrInvalidConfig, pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %s: %v", dynamo.ErrInvalidConfig, name, err)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = v
	}
	return out, nil
}

func parseRegion(vals []float64) (dynamo.Region, error) {
	if len(vals) != 4 {
		return dynamo.Region{}, fmt.Errorf("%w: region needs xmin,xmax,ymin,ymax, got %d values",
			dynamo.ErrInvalidConfig, len(vals))
	}
	return dynamo.Region{XMin: vals[0], XMax: vals[1], YMin: vals[2], YMax: vals[3]}, nil
}

func systemArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// chartSize reads the per-command width and height flags.
func chartSize(cmd *cobra.Command) (int, int) {
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	return w, h
}

// parseAxis reads name=from:to:steps.
func parseAxis(spec string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("%w: axis %q is not name=from:to:steps", dynamo.ErrInvalidConfig, spec)
	}
	from, err1 := strconv.ParseFloat(parts[0], 64)
	to, err2 := strconv.ParseFloat(parts[1], 64)
	steps, err3 := strconv.Atoi(parts[2])
	if err := errors.Join(err1, err2, err3); err != nil || steps < 1 {
		return optim.Axis{}, fmt.Errorf("%w: axis %q: bad range", dynamo.ErrInvalidConfig, spec)
	}
	return optim.Axis{Name: strings.ToLower(strings.TrimSpace(name)), Values: analysis.Linspace(from, to, steps)}, nil
}
