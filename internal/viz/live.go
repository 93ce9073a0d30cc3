package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/metrics"
)

const (
	canvasWidth     = 72
	canvasHeight    = 20
	historyCapacity = 600
	frameRate       = 30
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps an experiment in real time and draws the rod.
type LiveModel struct {
	exp    *experiment.Experiment
	scene  *Scene
	canvas *Canvas
	view   View

	t, dt         float64
	duration      float64
	step, steps   int
	stepsPerFrame int
	running       bool
	done          bool
	err           error
	showHelp      bool

	travel        *metrics.Travel
	travelHistory []float64
	heightHistory []float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

// NewLiveModel wraps an experiment that has already been set up.
func NewLiveModel(exp *experiment.Experiment) *LiveModel {
	cfg := exp.Config()
	r := exp.Rod()

	params := exp.Params()
	initial := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		initial[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	travel := metrics.NewTravel()
	travel.Observe(r, 0)

	return &LiveModel{
		exp: exp,
		scene: &Scene{
			Frame:   NewFrame(exp.Contact().Plane(), travel.Axis()),
			Camera:  NewCamera(),
			MinSpan: 1.5 * r.Length(),
		},
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		dt:            cfg.Sim.Dt,
		duration:      cfg.Sim.Duration,
		steps:         int(math.Round(cfg.Sim.Duration / cfg.Sim.Dt)),
		stepsPerFrame: max(1, int(math.Round(1/(frameRate*cfg.Sim.Dt)))),
		running:       true,
		travel:        travel,
		travelHistory: make([]float64, 0, historyCapacity),
		heightHistory: make([]float64, 0, historyCapacity),
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
	}
}

func (m *LiveModel) Init() tea.Cmd { return tick() }

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "v":
			m.view = m.view.Next()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-", "_":
			m.stepsPerFrame = max(1, m.stepsPerFrame/2)
		case "x":
			m.scene.Camera.RotateX(0.1)
		case "X":
			m.scene.Camera.RotateX(-0.1)
		case "z":
			m.scene.Camera.RotateZ(0.1)
		case "Z":
			m.scene.Camera.RotateZ(-0.1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

// advance takes up to n steps and records one history point.
func (m *LiveModel) advance(n int) {
	simulator := m.exp.GetSimulator()
	r := m.exp.Rod()
	for i := 0; i < n; i++ {
		if m.step >= m.steps {
			m.done = true
			break
		}
		if err := simulator.Step(r, m.t, m.dt); err != nil {
			m.err = err
			return
		}
		m.step++
		m.t = float64(m.step) * m.dt
		for _, metric := range m.exp.Metrics() {
			metric.Observe(r, m.t)
		}
	}

	m.travel.Observe(r, m.t)
	_, _, h := m.scene.Frame.Coords(r.CenterOfMass())
	m.travelHistory = appendCapped(m.travelHistory, m.travel.Value())
	m.heightHistory = appendCapped(m.heightHistory, h)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *LiveModel) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *LiveModel) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 && factor > 1 {
		val = 0.01
	}
	if err := m.exp.SetParam(key, val); err != nil {
		return
	}
	m.params[key] = val
}

// reset restores the initial rod and parameters.
func (m *LiveModel) reset() {
	if err := m.exp.Reset(); err != nil {
		m.err = err
		return
	}
	for k, v := range m.initialParams {
		if err := m.exp.SetParam(k, v); err == nil {
			m.params[k] = v
		}
	}
	m.t, m.step = 0, 0
	m.done = false
	m.err = nil
	m.travel.Reset()
	m.travel.Observe(m.exp.Rod(), 0)
	m.travelHistory = m.travelHistory[:0]
	m.heightHistory = m.heightHistory[:0]
}

func (m *LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR: " + m.err.Error())
	case m.done:
		return StatusPaused.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func (m *LiveModel) View() string {
	r := m.exp.Rod()
	m.scene.Draw(m.canvas, r.Positions, m.view)
	rodStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	canvasView := canvasStyle.Render(rodStyle.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(Header(strings.ToUpper(m.exp.Config().Name)) + "\n")
	s.WriteString(m.status() + "\n")
	s.WriteString(ProgressBar(m.t/m.duration, 30) + "\n\n")

	if len(m.travelHistory) > 1 {
		chart := asciigraph.Plot(m.travelHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("travel"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("View") + valueStyle.Render(m.view.String()) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/frame", m.stepsPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4g J", r.KineticEnergy())) + "\n")
	if n := len(m.heightHistory); n > 0 {
		s.WriteString(labelStyle.Render("Height") + valueStyle.Render(fmt.Sprintf("%.4f m", m.heightHistory[n-1])) + "\n")
	}
	if nf := m.exp.Contact().Last(); nf != nil {
		s.WriteString(labelStyle.Render("Contacts") + valueStyle.Render(fmt.Sprintf("%d/%d", nf.Contacts(), len(nf.InContact))) + "\n")
		s.WriteString(labelStyle.Render("Normal") + SparklineChart(nf.Magnitude, 30) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-34s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset V:View Q:Quit\nTab/↑↓:Tune +/-:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  V        - Cycle side/top/3D view   ║
║  X/Z      - Rotate 3D camera         ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  +/-      - Simulation speed         ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for exp until the user quits.
func RunLive(exp *experiment.Experiment) error {
	_, err := tea.NewProgram(NewLiveModel(exp), tea.WithAltScreen()).Run()
	return err
}
