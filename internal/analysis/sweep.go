package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/odelab/internal/dynamo"
)

// SweepPoint holds the equilibria found at one parameter value.
type SweepPoint struct {
	Param  float64      `json:"param"`
	Points []FixedPoint `json:"points"`
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	step := (max - min) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[n-1] = max
	return out
}

// Sweep locates the equilibria of build(v) for every v. build returns a
// fresh, fully parameterised system, so the sweep never mutates a caller's
// model.
func Sweep(build func(v float64) (dynamo.System, error), values []float64, region dynamo.Region) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		sys, err := build(v)
		if err != nil {
			return nil, fmt.Errorf("sweep at %g: %w", v, err)
		}
		results = append(results, SweepPoint{Param: v, Points: Equilibria(sys, region)})
	}
	return results, nil
}

// BifurcationToASCII plots one coordinate of every equilibrium against the
// swept parameter. Stable points are drawn as '•', the rest as 'o'.
func BifurcationToASCII(data []SweepPoint, component, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, fp := range p.Points {
			if component >= len(fp.Location) {
				continue
			}
			v := fp.Location[component]
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, fp := range p.Points {
			if component >= len(fp.Location) {
				continue
			}
			v := fp.Location[component]
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row < 0 || row >= height {
				continue
			}
			mark := 'o'
			if fp.Stability == StabilityStable {
				mark = '•'
			}
			// stable wins when both land on one cell
			if canvas[row][col] != '•' {
				canvas[row][col] = mark
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%.4g\n", maxVal)
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	fmt.Fprintf(&sb, "%.4g\n", minVal)
	return sb.String()
}
