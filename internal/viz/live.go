package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/grayscott/internal/experiment"
	"github.com/san-kum/grayscott/internal/export"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/sim"
)

const (
	defaultCols     = 64
	defaultRows     = 32
	historyCapacity = 600
	maxStepsPerTick = 256
)

var tunable = []string{"f", "k", "du", "dv"}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of one experiment.
type Model struct {
	exp     *experiment.Experiment
	sim     *sim.Simulator
	initial model.Params

	theme   Theme
	cm      export.Colormap
	showV   bool
	braille bool
	canvas  *Canvas

	cols, rows    int
	running       bool
	stepsPerFrame int
	selected      int
	meanHistory   []float64
	err           error

	recording bool
	movie     *export.Movie
	saved     string
	showHelp  bool
}

func NewModel(exp *experiment.Experiment, theme string) Model {
	t := GetTheme(theme)
	cm, _ := export.GetColormap(t.Colormap)
	s := exp.GetSimulator()
	return Model{
		exp:           exp,
		sim:           s,
		initial:       s.Params(),
		theme:         t,
		cm:            cm,
		canvas:        NewCanvas(defaultCols, defaultRows/2),
		cols:          defaultCols,
		rows:          defaultRows / 2,
		running:       true,
		stepsPerFrame: 8,
		meanHistory:   []float64{s.State().U.Mean()},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			// An unstable field must be reset before it can run again.
			if m.running || !m.unstable() {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(tunable)
		case "up", "k":
			m.adjustParam(1.02)
		case "down", "j":
			m.adjustParam(1 / 1.02)
		case "[":
			m.stepsPerFrame = max(1, m.stepsPerFrame/2)
		case "]":
			m.stepsPerFrame = min(maxStepsPerTick, m.stepsPerFrame*2)
		case "v":
			m.showV = !m.showV
		case "b":
			m.braille = !m.braille
		case "t":
			m.theme = nextTheme(m.theme.Name)
			m.cm, _ = export.GetColormap(m.theme.Colormap)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.cols = max(8, min(msg.Width-50, 2*defaultCols))
		m.rows = max(4, msg.Height-4)
		m.canvas = NewCanvas(m.cols, m.rows)
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to n steps and stops at the first error.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.meanHistory = append(m.meanHistory, m.sim.State().U.Mean())
	if len(m.meanHistory) > historyCapacity {
		m.meanHistory = m.meanHistory[1:]
	}
}

func (m *Model) adjustParam(factor float64) {
	p := m.sim.Params()
	key := tunable[m.selected]
	val := p.GetParams()[key] * factor
	if val == 0 {
		val = 1e-4
	}
	next, err := p.WithParam(key, val)
	if err != nil {
		m.err = err
		return
	}
	if err := m.sim.SetParams(next); err != nil {
		m.err = err
	}
}

// reset restores the initial fields and parameters.
func (m *Model) reset() {
	if err := m.sim.SetParams(m.initial); err != nil {
		m.err = err
		return
	}
	if err := m.exp.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.meanHistory = []float64{m.sim.State().U.Mean()}
}

func (m Model) unstable() bool {
	return errors.Is(m.err, model.ErrNumericInstability)
}

func (m *Model) field() []float64 {
	st := m.sim.State()
	if m.showV {
		return st.V.Cells()
	}
	return st.U.Cells()
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.movie = export.NewMovie(m.sim.State().Size(), m.cm, export.Range{Lo: 0, Hi: 1}, 2, 3)
		m.recording = true
		return
	}
	m.recording = false
	if m.movie.Len() > 0 {
		path := fmt.Sprintf("grayscott_%d.gif", time.Now().Unix())
		if err := m.movie.Save(path); err != nil {
			m.err = err
		} else {
			m.saved = path
		}
	}
	m.movie = nil
}

func (m *Model) captureFrame() {
	if err := m.movie.AddFrame(m.field()); err != nil {
		m.err = err
	}
}

// Step reports how many steps the simulation has taken.
func (m Model) Step() int { return m.sim.State().Step }

func (m Model) View() string {
	t := m.theme
	header := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(t.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(t.Text)
	active := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Muted).Padding(1, 2).Width(46)

	st := m.sim.State()
	n := st.Size()
	var picture string
	if m.braille {
		m.canvas.DrawField(n, m.field(), fieldThreshold(m.showV))
		picture = lipgloss.NewStyle().Foreground(t.Primary).Render(m.canvas.String())
	} else {
		picture = Heatmap(n, m.field(), m.cm, export.Range{Lo: 0, Hi: 1}, m.cols, m.rows)
	}

	p := m.sim.Params()
	var s strings.Builder
	name := "U"
	if m.showV {
		name = "V"
	}
	s.WriteString(header.Render("GRAY-SCOTT  "+name) + "\n")

	status := "RUNNING"
	switch {
	case m.unstable():
		status = "UNSTABLE (R to reset)"
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += fmt.Sprintf("  ● REC %d", m.movie.Len())
	}
	s.WriteString(status + "\n\n")

	history := make([]float64, 0, len(m.meanHistory))
	for _, v := range m.meanHistory {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			history = append(history, v)
		}
	}
	if len(history) > 1 {
		chart := asciigraph.Plot(history, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("mean U"))
		s.WriteString(chart + "\n\n")
	}

	lo, hi := st.U.MinMax()
	row := func(k, v string) { s.WriteString(label.Render(k) + value.Render(v) + "\n") }
	row("Step", fmt.Sprintf("%d", st.Step))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame))
	row("Mean U", fmt.Sprintf("%.5f", m.meanHistory[len(m.meanHistory)-1]))
	row("U range", fmt.Sprintf("%.3f … %.3f", lo, hi))
	row("dt", fmt.Sprintf("%g (limit %.3g)", p.Dt, p.StabilityLimit()))

	s.WriteString("\nPARAMETERS\n")
	values := p.GetParams()
	for i, k := range tunable {
		line := fmt.Sprintf("%-4s %.5f", k, values[k])
		if i == m.selected {
			s.WriteString(active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + label.Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + warn.Render(m.err.Error()) + "\n")
	}
	if m.saved != "" {
		s.WriteString("\n" + label.Render("saved "+m.saved) + "\n")
	}

	s.WriteString(label.Render("\nSP:Pause R:Reset Q:Quit\nTab/↑↓:Tune [ ]:Speed\nV:Field B:Braille T:Theme\nG:Record ?:Help"))

	layout := lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(picture), panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + layout
	}
	return layout
}

func fieldThreshold(v bool) float64 {
	if v {
		return 0.2
	}
	return 0.5
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset fields and params  ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+2%) ║
║  Down/J   - Decrease parameter (-2%) ║
║  [ ]      - Halve/double speed       ║
║  V        - Toggle U/V field         ║
║  B        - Toggle Braille view      ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view and blocks until the user quits.
func Run(exp *experiment.Experiment, theme string) error {
	_, err := tea.NewProgram(NewModel(exp, theme), tea.WithAltScreen()).Run()
	return err
}
