package metrics

import (
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/sim"
)

// Labelled is implemented by models that name their state components.
type Labelled interface {
	Labels() []string
}

// Standard returns the default metric set for sys: a peak and a final value
// per component, the arc length, and the invariant drift when sys has a
// conserved quantity.
func Standard(sys dynamo.System) []sim.Metric {
	labels := componentLabels(sys)
	ms := make([]sim.Metric, 0, 2*len(labels)+2)
	for i, label := range labels {
		ms = append(ms, NewPeak(label, i), NewFinal(label, i))
	}
	ms = append(ms, NewArcLength())
	if c, ok := sys.(dynamo.Conserved); ok {
		ms = append(ms, NewInvariantDrift(c))
	}
	return ms
}

// Evaluate replays a finished trajectory through ms and returns their
// values by name.
func Evaluate(traj *dynamo.Trajectory, ms ...sim.Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < traj.Len(); i++ {
		s := traj.At(i)
		for _, m := range ms {
			m.Observe(s.State, s.Time)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func componentLabels(sys dynamo.System) []string {
	if l, ok := sys.(Labelled); ok {
		if labels := l.Labels(); len(labels) == sys.StateDim() {
			return labels
		}
	}
	names := []string{"x", "y", "z"}
	labels := make([]string, sys.StateDim())
	for i := range labels {
		if i < len(names) {
			labels[i] = names[i]
		} else {
			labels[i] = "x" + string(rune('0'+i))
		}
	}
	return labels
}
