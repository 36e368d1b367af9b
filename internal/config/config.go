package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/models"
)

const (
	DefaultSystem   = "lotka_volterra"
	DefaultDt       = 0.01
	DefaultDuration = 20.0
	DefaultDataDir  = "runs"
	DefaultLogLevel = "info"
)

// Environment overrides, read after an optional .env file.
const (
	EnvDataDir  = "ODELAB_DATA_DIR"
	EnvLogLevel = "ODELAB_LOG_LEVEL"
	EnvLogFile  = "ODELAB_LOG_FILE"
)

type Config struct {
	System     string             `yaml:"system"`
	Integrator string             `yaml:"integrator"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Region     dynamo.Region      `yaml:"region"`
	DataDir    string             `yaml:"data_dir"`
	LogLevel   string             `yaml:"log_level"`
	LogFile    string             `yaml:"log_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     DefaultSystem,
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Region:     dynamo.DefaultRegion(),
		DataDir:    DefaultDataDir,
		LogLevel:   DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads the given .env files (or ./.env when none are given),
// ignoring missing ones, and applies the ODELAB_* overrides.
func (c *Config) ApplyEnv(files ...string) {
	_ = godotenv.Load(files...)

	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.InitState != nil {
		out.InitState = append([]float64(nil), c.InitState...)
	}
	return &out
}

// BuildSystem constructs the configured model with its defaults and then
// applies the parameter overrides in name order.
func (c *Config) BuildSystem() (models.Model, error) {
	m, err := models.Lookup(c.System)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.SetParam(name, c.Params[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// InitialState is the configured initial state, or the model default when
// none is set.
func (c *Config) InitialState(m models.Model) (dynamo.State, error) {
	if len(c.InitState) == 0 {
		return m.DefaultState(), nil
	}
	if len(c.InitState) != m.StateDim() {
		return nil, fmt.Errorf("%w: %s needs %d initial values, got %d",
			dynamo.ErrDimensionMismatch, c.System, m.StateDim(), len(c.InitState))
	}
	return dynamo.State(c.InitState).Clone(), nil
}

// Stepper returns a fresh stepper for the configured integrator.
func (c *Config) Stepper() (integrators.Stepper, error) {
	switch strings.ToLower(c.Integrator) {
	case "", "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	default:
		return nil, fmt.Errorf("%w: unknown integrator %q", dynamo.ErrInvalidConfig, c.Integrator)
	}
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, c.Dt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %g", dynamo.ErrInvalidConfig, c.Duration)
	}
	r := c.Region
	if !(r.XMin < r.XMax) || !(r.YMin < r.YMax) {
		return fmt.Errorf("%w: empty region [%g,%g]x[%g,%g]", dynamo.ErrInvalidConfig, r.XMin, r.XMax, r.YMin, r.YMax)
	}
	if r.Grid < 1 {
		return fmt.Errorf("%w: grid must be at least 1, got %d", dynamo.ErrInvalidConfig, r.Grid)
	}
	if _, err := c.Stepper(); err != nil {
		return err
	}
	m, err := c.BuildSystem()
	if err != nil {
		return err
	}
	_, err = c.InitialState(m)
	return err
}
