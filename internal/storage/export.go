package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/experiment"
)

type ExportData struct {
	System      string                `json:"system"`
	Integrator  string                `json:"integrator"`
	Params      map[string]float64    `json:"params"`
	Dt          float64               `json:"dt"`
	Duration    float64               `json:"duration"`
	Steps       int                   `json:"steps"`
	Times       []float64             `json:"times"`
	States      [][]float64           `json:"states"`
	FixedPoints []analysis.FixedPoint `json:"fixed_points"`
	Metrics     map[string]float64    `json:"metrics"`
}

func NewExportData(cfg *config.Config, out *experiment.Outcome) ExportData {
	data := ExportData{
		System:      out.System,
		Integrator:  cfg.Integrator,
		Params:      out.Params,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Steps:       out.Trajectory.Len(),
		Times:       out.Trajectory.Times,
		States:      make([][]float64, out.Trajectory.Len()),
		FixedPoints: out.FixedPoints,
		Metrics:     sanitize(out.Metrics),
	}
	for i, s := range out.Trajectory.States {
		data.States[i] = s
	}
	return data
}

// WriteJSON writes an indented export of the run to w.
func WriteJSON(w io.Writer, cfg *config.Config, out *experiment.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(cfg, out))
}

func ExportJSON(path string, cfg *config.Config, out *experiment.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, cfg, out)
}
