package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/sim"
	"github.com/san-kum/odelab/internal/viz"
)

const (
	orbitCount  = 6
	orbitStep   = 0.02
	adjustRatio = 1.1
	minCanvasW  = 40
	minCanvasH  = 12
)

type state int

const (
	stateMenu state = iota
	stateExplore
)

type model struct {
	state  state
	kinds  []models.Kind
	cursor int

	sys         models.Model
	paramNames  []string
	paramCursor int
	region      dynamo.Region
	duration    float64
	orbits      []*dynamo.Trajectory
	fixed       []analysis.FixedPoint
	err         error

	theme  int
	width  int
	height int
}

// NewExplorer starts on the menu, or directly on system when it is set.
func NewExplorer(system string) (model, error) {
	m := model{
		state:  stateMenu,
		kinds:  models.Kinds(),
		width:  100,
		height: 32,
	}
	if system == "" {
		return m, nil
	}
	k, err := models.ParseKind(system)
	if err != nil {
		return m, err
	}
	m.cursor = int(k)
	m.open()
	return m, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateExplore:
		return m.exploreKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.open()
	}
	return m, nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "tab":
		m.cursor = (m.cursor + 1) % len(m.kinds)
		m.open()
	case "shift+tab":
		m.cursor = (m.cursor + len(m.kinds) - 1) % len(m.kinds)
		m.open()
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "right", "l", "+":
		m.adjust(true)
	case "left", "h", "-":
		m.adjust(false)
	case "r":
		m.open()
	case "t":
		m.theme = (m.theme + 1) % len(viz.Themes)
	}
	return m, nil
}

// open loads the selected system with its defaults and the region and
// horizon of its first preset.
func (m *model) open() {
	k := m.kinds[m.cursor]
	m.state = stateExplore
	m.sys = k.New()
	m.paramNames = models.ParamNames(m.sys)
	m.paramCursor = 0
	m.region = dynamo.DefaultRegion()
	m.duration = config.DefaultDuration
	if names := config.ListPresets(k.String()); len(names) > 0 {
		p := config.GetPreset(k.String(), names[0])
		m.region = p.Region
		m.duration = p.Duration
	}
	m.recompute()
}

func (m *model) adjust(up bool) {
	if len(m.paramNames) == 0 {
		return
	}
	name := m.paramNames[m.paramCursor]
	v := m.sys.GetParams()[name]
	switch {
	case v == 0 && up:
		v = 0.1
	case v == 0:
		v = -0.1
	case up:
		v *= adjustRatio
	default:
		v /= adjustRatio
	}
	if err := m.sys.SetParam(name, v); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.recompute()
}

func (m *model) recompute() {
	m.fixed = analysis.Equilibria(m.sys, m.region)
	starts := m.starts()
	m.orbits = make([]*dynamo.Trajectory, 0, len(starts))
	for _, x0 := range starts {
		m.orbits = append(m.orbits, sim.Trajectory(m.sys, x0, m.duration, orbitStep))
	}
}

func (m *model) starts() []dynamo.State {
	switch m.sys.StateDim() {
	case 1:
		out := make([]dynamo.State, 0, orbitCount)
		for _, p := range analysis.Linspace(m.region.XMin, m.region.XMax, orbitCount+2)[1 : orbitCount+1] {
			out = append(out, dynamo.State{p})
		}
		return out
	case 2:
		return append(sim.Starts(m.region, orbitCount-1), m.sys.DefaultState())
	default:
		return []dynamo.State{m.sys.DefaultState()}
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateExplore:
		return m.viewExplore()
	}
	return ""
}

func (m model) styles() viz.Styles { return viz.Themes[m.theme].Styles() }

func (m model) viewMenu() string {
	st := m.styles()
	var b strings.Builder

	b.WriteString("\n  " + st.Title.Render("o d e l a b") + "\n\n")
	for i, k := range m.kinds {
		name := fmt.Sprintf("%-24s", k.String())
		if i == m.cursor {
			b.WriteString("  " + st.Selected.Render("▸ "+name) + st.Label.Render(k.Description()) + "\n")
		} else {
			b.WriteString("    " + st.Value.Render(name) + st.Label.Render(k.Description()) + "\n")
		}
	}
	b.WriteString("\n" + st.Hint.Render("  ↑↓ select   enter explore   q quit") + "\n")
	return b.String()
}

func (m model) canvasSize() (int, int) {
	return max(m.width-40, minCanvasW), max(m.height-8, minCanvasH)
}

func (m model) viewExplore() string {
	st := m.styles()
	cw, ch := m.canvasSize()
	canvas := m.draw(cw, ch)

	var side strings.Builder
	side.WriteString(st.Title.Render("parameters") + "\n")
	if len(m.paramNames) == 0 {
		side.WriteString(st.Label.Render("  none") + "\n")
	}
	params := m.sys.GetParams()
	for i, name := range m.paramNames {
		line := fmt.Sprintf("%-8s %10.4g", name, params[name])
		if i == m.paramCursor {
			side.WriteString(st.Selected.Render("▸ "+line) + "\n")
		} else {
			side.WriteString("  " + st.Value.Render(line) + "\n")
		}
	}

	side.WriteString("\n" + st.Title.Render("equilibria") + "\n")
	if len(m.fixed) == 0 {
		side.WriteString(st.Label.Render("  none in view") + "\n")
	}
	for _, fp := range m.fixed {
		style := st.Unstable
		if fp.Stability == analysis.StabilityStable {
			style = st.Stable
		}
		side.WriteString(fmt.Sprintf("  %s %s\n",
			style.Render(string(glyph(fp))),
			st.Value.Render(fmt.Sprintf("%s %s", formatPoint(fp.Location), fp.Type))))
	}
	if m.err != nil {
		side.WriteString("\n" + st.Unstable.Render(m.err.Error()) + "\n")
	}

	k := m.kinds[m.cursor]
	header := "  " + st.Title.Render(k.String()) + "  " + st.Label.Render(k.Description()) + "\n"
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Panel.Render(st.Plot.Render(strings.TrimRight(canvas.String(), "\n"))),
		st.Panel.Render(strings.TrimRight(side.String(), "\n")))
	hints := st.Hint.Render("  ↑↓ param  ←→ adjust  tab next system  r reset  t theme  esc menu  q quit")
	return header + body + "\n" + hints + "\n"
}

// draw renders the orbits and equilibria. Planar systems use the phase
// plane; scalar ones plot the state against time over the region's x range.
func (m model) draw(w, h int) *viz.Canvas {
	c := viz.NewCanvas(w, h)
	switch m.sys.StateDim() {
	case 1:
		view := dynamo.Region{XMin: 0, XMax: m.duration, YMin: m.region.XMin, YMax: m.region.XMax}
		for _, fp := range m.fixed {
			c.PlotPath(view, []float64{0, m.duration}, []float64{fp.Location[0], fp.Location[0]})
		}
		for _, o := range m.orbits {
			c.PlotPath(view, o.Times, o.Component(0))
		}
	case 2:
		for _, o := range m.orbits {
			c.PlotPath(m.region, o.Component(0), o.Component(1))
		}
		for _, fp := range m.fixed {
			c.Mark(m.region, fp.Location[0], fp.Location[1], glyph(fp))
		}
	default:
		// compartment models: every component against time
		hi := 0.0
		for _, o := range m.orbits {
			for _, s := range o.States {
				for _, v := range s {
					hi = math.Max(hi, v)
				}
			}
		}
		view := dynamo.Region{XMin: 0, XMax: m.duration, YMin: 0, YMax: math.Max(hi, 1)}
		for _, o := range m.orbits {
			for i := 0; i < m.sys.StateDim(); i++ {
				c.PlotPath(view, o.Times, o.Component(i))
			}
		}
	}
	return c
}

func glyph(fp analysis.FixedPoint) rune {
	switch fp.Stability {
	case analysis.StabilityStable:
		return '●'
	case analysis.StabilitySemiStable:
		return '◎'
	default:
		return '○'
	}
}

func formatPoint(p dynamo.State) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%.3g", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RunExplorer opens the explorer full screen.
func RunExplorer(system string) error {
	m, err := NewExplorer(system)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
