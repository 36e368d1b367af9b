package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/metrics"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/sim"
	"github.com/san-kum/odelab/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base configuration for one run. A preset, when
// named, replaces the base before the remaining fields apply.
type ScenarioStep struct {
	System     string             `yaml:"system"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	InitState  []float64          `yaml:"init_state"`
	Params     map[string]float64 `yaml:"params"`
	Region     *dynamo.Region     `yaml:"region"`
	SaveAs     string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: scenario %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", dynamo.ErrInvalidConfig, path)
	}
	return &scenario, nil
}

// Config resolves the step against base.
func (s ScenarioStep) Config(base *config.Config) (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		system := s.System
		if system == "" {
			system = base.System
		}
		cfg = config.GetPreset(system, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: no preset %q for %s", dynamo.ErrInvalidConfig, s.Preset, system)
		}
		cfg.DataDir, cfg.LogLevel, cfg.LogFile = base.DataDir, base.LogLevel, base.LogFile
	} else {
		cfg = base.Clone()
		if s.System != "" && s.System != cfg.System {
			cfg.System = s.System
			cfg.Params = nil
			cfg.InitState = nil
		}
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if len(s.InitState) > 0 {
		cfg.InitState = append([]float64(nil), s.InitState...)
	}
	if len(s.Params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(s.Params))
		}
		for k, v := range s.Params {
			cfg.Params[k] = v
		}
	}
	if s.Region != nil {
		cfg.Region = *s.Region
	}
	return cfg, nil
}

type StepResult struct {
	Config  *config.Config
	Outcome *experiment.Outcome
	RunID   string
}

// Runner executes scenarios. Steps with save_as are persisted when a store
// is attached.
type Runner struct {
	base  *config.Config
	store *storage.Store
	log   *zap.Logger
}

func NewRunner(base *config.Config, store *storage.Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{base: base, store: store, log: log.Named("automation")}
}

// RunScenario stops at the first failing step and returns the results so far.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config(r.base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.log.Info("running step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("system", cfg.System))

		out, err := experiment.RunConfig(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Config: cfg, Outcome: out}
		if step.SaveAs != "" && r.store != nil {
			id, err := r.store.Save(step.SaveAs, cfg, out)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

// SweepSpec varies one parameter and tracks the equilibria.
type SweepSpec struct {
	System string
	Params map[string]float64
	Param  string
	Min    float64
	Max    float64
	Steps  int
	Region dynamo.Region
}

// RunSweep evaluates spec, going through cache when one is given.
func RunSweep(spec SweepSpec, cache *analysis.SweepCache) ([]analysis.SweepPoint, error) {
	if spec.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	base, err := models.Lookup(spec.System)
	if err != nil {
		return nil, err
	}
	for name, v := range spec.Params {
		if err := base.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	// reject an unknown sweep parameter before any work
	if _, ok := base.GetParams()[spec.Param]; !ok {
		return nil, &dynamo.ParamError{System: spec.System, Name: spec.Param}
	}

	build := func(v float64) (dynamo.System, error) {
		m := models.Clone(base)
		if err := m.SetParam(spec.Param, v); err != nil {
			return nil, err
		}
		return m, nil
	}
	values := analysis.Linspace(spec.Min, spec.Max, spec.Steps)
	if cache == nil {
		return analysis.Sweep(build, values, spec.Region)
	}
	key := analysis.SweepKey(spec.System, base.GetParams(), spec.Param, values, spec.Region)
	return cache.GetOrSweep(key, build, values, spec.Region)
}

// MonteCarloConfig perturbs the configured initial state uniformly by up
// to ±Perturbation per component.
type MonteCarloConfig struct {
	Config       *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Threshold    float64
	SettleTol    float64
}

type MonteCarloResult struct {
	TrialID    int
	InitState  dynamo.State
	FinalState dynamo.State
	Bounded    bool
	// Basin is the index of the fixed point the orbit ended on, or -1.
	Basin int
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, []analysis.FixedPoint, error) {
	cfg := mc.Config
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	m, err := cfg.BuildSystem()
	if err != nil {
		return nil, nil, err
	}
	base, err := cfg.InitialState(m)
	if err != nil {
		return nil, nil, err
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	starts := make([]dynamo.State, mc.NumTrials)
	for trial := range starts {
		x := make(dynamo.State, len(base))
		for i, v := range base {
			x[i] = v + (rng.Float64()-0.5)*2*mc.Perturbation
		}
		if _, ok := m.(dynamo.NonNegative); ok {
			x.ClampNonNegative()
		}
		starts[trial] = x
	}

	runs, err := sim.NewEnsemble(m, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}).Run(ctx, starts)
	if err != nil {
		return nil, nil, err
	}

	threshold := mc.Threshold
	if threshold <= 0 {
		threshold = 1e6
	}
	tol := mc.SettleTol
	if tol <= 0 {
		tol = 1e-2
	}
	fps := analysis.Equilibria(m, cfg.Region)

	results := make([]MonteCarloResult, len(runs))
	for i, run := range runs {
		vals := metrics.Evaluate(run.Trajectory, metrics.NewBounded(threshold))
		final := run.Trajectory.Final()
		results[i] = MonteCarloResult{
			TrialID:    i,
			InitState:  starts[i],
			FinalState: final,
			Bounded:    vals["bounded"] == 1,
			Basin:      nearest(fps, final, tol),
		}
	}
	return results, fps, nil
}

func nearest(fps []analysis.FixedPoint, x dynamo.State, tol float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, fp := range fps {
		if len(fp.Location) != len(x) {
			continue
		}
		d := x.Sub(fp.Location).Norm()
		if d < tol && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func MonteCarloStats(results []MonteCarloResult) (boundedCount int, unboundedCount int) {
	for _, r := range results {
		if r.Bounded {
			boundedCount++
		} else {
			unboundedCount++
		}
	}
	return
}

// Basins counts trials per fixed point index; -1 collects the rest.
func Basins(results []MonteCarloResult) map[int]int {
	out := make(map[int]int)
	for _, r := range results {
		out[r.Basin]++
	}
	return out
}
