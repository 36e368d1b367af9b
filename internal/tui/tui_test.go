package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
)

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestExplorerMenuNavigation(t *testing.T) {
	m, err := NewExplorer("")
	require.NoError(t, err)
	assert.Equal(t, stateMenu, m.state)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, runes("j"), runes("j"))
	assert.Equal(t, 2, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateExplore, m.state)
	assert.Equal(t, models.KindCenter, m.sys.Kind())
	assert.Contains(t, m.View(), "center")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateMenu, m.state)
	assert.Contains(t, m.View(), "lotka_volterra")
}

func TestExplorerUnknownSystem(t *testing.T) {
	_, err := NewExplorer("lorenz")
	assert.ErrorIs(t, err, dynamo.ErrUnknownSystem)
}

func TestExplorerAdjustRecomputes(t *testing.T) {
	m, err := NewExplorer("logistic_harvest")
	require.NoError(t, err)
	require.Len(t, m.fixed, 2)

	idx := -1
	for i, name := range m.paramNames {
		if name == "h" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.paramCursor = idx

	// h: 10 -> 13.31, beyond the maximum sustainable yield of 12.5
	m = press(t, m, runes("+"), runes("+"), runes("+"))
	assert.InDelta(t, 13.31, m.sys.GetParams()["h"], 1e-9)
	assert.Empty(t, m.fixed)
	assert.Contains(t, m.View(), "none in view")

	m = press(t, m, runes("r"))
	assert.Equal(t, 10.0, m.sys.GetParams()["h"])
	assert.Len(t, m.fixed, 2)
}

func TestExplorerRejectsBadParam(t *testing.T) {
	m, err := NewExplorer("pendulum")
	require.NoError(t, err)
	for i, name := range m.paramNames {
		if name == "length" {
			m.paramCursor = i
		}
	}
	m.sys.(*models.Pendulum).Length = 0
	// 0 -> -0.1 is refused
	m = press(t, m, runes("-"))
	assert.ErrorIs(t, m.err, dynamo.ErrParameterBounds)
}

func TestExplorerTabCyclesSystems(t *testing.T) {
	m, err := NewExplorer("sir")
	require.NoError(t, err)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.KindLinearSpiral, m.sys.Kind())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, models.KindSIR, m.sys.Kind())
	assert.NotEmpty(t, m.View())
}

func TestExplorerPlanarViewMarksEquilibria(t *testing.T) {
	m, err := NewExplorer("duffing")
	require.NoError(t, err)
	m = press(t, m, runes("t"))
	assert.Equal(t, 1, m.theme)
	assert.Len(t, m.orbits, orbitCount)
	assert.Contains(t, m.draw(60, 20).String(), "●")
}

func TestExplorerQuits(t *testing.T) {
	m, _ := NewExplorer("")
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestLiveRendererPlanar(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "center", []string{"x", "y"}, dynamo.Region{XMin: -2, XMax: 2, YMin: -2, YMax: 2}, 0)
	r.Start()
	r.OnStep(dynamo.State{1, 0}, 0)
	r.OnStep(dynamo.State{0.9, 0.1}, 0.1)
	r.Stop()

	assert.Equal(t, 2, r.Frames())
	out := buf.String()
	assert.Contains(t, out, "t=0.100")
	assert.Contains(t, out, "x=0.9")
	assert.Contains(t, out, "O")
}

func TestLiveRendererScalarAndThrottle(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "logistic", []string{"P"}, dynamo.DefaultRegion(), 1)
	for i := 0; i < 50; i++ {
		r.OnStep(dynamo.State{float64(i)}, float64(i))
	}
	assert.Equal(t, 1, r.Frames())
	assert.True(t, strings.Contains(buf.String(), "P=0"))
	assert.Len(t, r.history, 50)
}
