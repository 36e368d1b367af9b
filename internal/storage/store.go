package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv.zst"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	log     *zap.Logger
}

func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log.Named("storage")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string                `json:"id"`
	Name        string                `json:"name,omitempty"`
	System      string                `json:"system"`
	Timestamp   time.Time             `json:"timestamp"`
	Integrator  string                `json:"integrator"`
	Params      map[string]float64    `json:"params"`
	InitState   []float64             `json:"init_state"`
	Dt          float64               `json:"dt"`
	Duration    float64               `json:"duration"`
	Region      dynamo.Region         `json:"region"`
	Samples     int                   `json:"samples"`
	Fingerprint string                `json:"fingerprint"`
	FixedPoints []analysis.FixedPoint `json:"fixed_points"`
	Metrics     map[string]float64    `json:"metrics"`
}

// Save writes the run metadata and its compressed trajectory. The returned
// ID is time ordered.
func (s *Store) Save(name string, cfg *config.Config, out *experiment.Outcome) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	runDir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          id,
		Name:        name,
		System:      out.System,
		Timestamp:   time.Now().UTC(),
		Integrator:  cfg.Integrator,
		Params:      out.Params,
		InitState:   out.InitState,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Region:      cfg.Region,
		Samples:     out.Trajectory.Len(),
		Fingerprint: Fingerprint(out.System, out.Params, out.InitState, cfg.Dt, cfg.Duration, cfg.Integrator),
		FixedPoints: out.FixedPoints,
		Metrics:     sanitize(out.Metrics),
	}

	if err := s.writeRun(runDir, meta, out.Trajectory); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.Warn("could not remove partial run", zap.String("id", id), zap.Error(rmErr))
		}
		return "", err
	}

	s.log.Info("saved run",
		zap.String("id", id),
		zap.String("system", meta.System),
		zap.Int("samples", meta.Samples),
		zap.String("fingerprint", meta.Fingerprint))
	return id, nil
}

func (s *Store) writeRun(runDir string, meta RunMetadata, traj *dynamo.Trajectory) error {
	if err := writeStates(filepath.Join(runDir, statesFile), traj); err != nil {
		return fmt.Errorf("write states: %w", err)
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	traj, err := readStates(filepath.Join(s.baseDir, runID, statesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
	}
	return traj, err
}

// FindByFingerprint returns the most recent run with the given fingerprint.
func (s *Store) FindByFingerprint(fp string) (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Fingerprint == fp {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: fingerprint %s", dynamo.ErrRunNotFound, fp)
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	s.log.Info("deleting run", zap.String("id", runID))
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sanitize drops values encoding/json cannot represent.
func sanitize(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
