package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
)

func TestTrajectoryToSVG(t *testing.T) {
	pts := []struct{ X, Y float64 }{{0, 0}, {1, 1}, {2, 0}}
	svg := TrajectoryToSVG(pts, 200, 100, "#ff0000")

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Equal(t, 2, strings.Count(svg, " L"))
}

func TestTrajectoryToSVGTooShort(t *testing.T) {
	assert.Empty(t, TrajectoryToSVG(nil, 10, 10, "#fff"))
	assert.Empty(t, TrajectoryToSVG([]struct{ X, Y float64 }{{1, 1}}, 10, 10, "#fff"))
}

func TestPortraitToSVG(t *testing.T) {
	traj := dynamo.NewTrajectory(3)
	traj.Append(0, dynamo.State{1, 0})
	traj.Append(1, dynamo.State{0, 1})
	traj.Append(2, dynamo.State{-1, 0})

	fps := []analysis.FixedPoint{
		{Location: dynamo.State{0, 0}, Type: analysis.TypeCenter, Stability: analysis.StabilitySemiStable},
		{Location: dynamo.State{0.5, 0.5}, Type: analysis.TypeStableNode, Stability: analysis.StabilityStable},
	}
	svg := PortraitToSVG(analysis.NewPhasePortrait([]*dynamo.Trajectory{traj}, fps, 0, 1), 300, 300)

	assert.Equal(t, 1, strings.Count(svg, "<path"))
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `fill="#ffffff"`)
	assert.Contains(t, svg, "<title>center semi-stable</title>")
}

func TestPortraitToSVGEmpty(t *testing.T) {
	assert.Empty(t, PortraitToSVG(&analysis.PhasePortrait2D{}, 100, 100))
}
