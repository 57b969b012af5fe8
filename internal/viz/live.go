package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/export"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 45
	historyCapacity = 600

	traceFile = "nchain-trace.svg"
)

type TickMsg time.Time

// LiveOptions controls how the live view drives its chain.
type LiveOptions struct {
	Title string

	// StepDt is the largest step handed to Chain.Update. A frame longer
	// than StepDt is split into equal substeps.
	StepDt float64

	// MaxFrameDt caps the wall-clock time simulated per frame, so a stalled
	// terminal does not produce one huge step.
	MaxFrameDt float64

	FPS   int
	Theme string
}

// Model is the bubbletea model of the live chain view.
type Model struct {
	chain         *sim.Chain
	opts          LiveOptions
	theme         Theme
	canvas        *Canvas
	width, height int
	running       bool
	showHelp      bool
	lastTick      time.Time
	initialEnergy float64
	energyHistory []float64
	message       string
}

func NewModel(chain *sim.Chain, opts LiveOptions) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.StepDt <= 0 {
		opts.StepDt = 0.001
	}
	if opts.MaxFrameDt <= 0 {
		opts.MaxFrameDt = 0.05
	}
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("%d-link chain", chain.Len())
	}

	return Model{
		chain:         chain,
		opts:          opts,
		theme:         GetTheme(opts.Theme),
		canvas:        NewCanvas(defaultWidth-statsWidth, defaultHeight),
		width:         defaultWidth,
		height:        defaultHeight,
		running:       true,
		initialEnergy: chain.Energy(),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "c":
			m.chain.ClearPoints()
		case "r":
			m.reset()
		case "s":
			m.cycleSolver()
		case "t":
			m.theme = NextTheme(m.theme)
		case "e":
			m.exportTrace()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() && m.running {
			m.advance(now.Sub(m.lastTick).Seconds())
		}
		m.lastTick = now
		return m, m.tick()
	}
	return m, nil
}

// advance simulates elapsed wall-clock seconds, clamped to MaxFrameDt and
// split into substeps no longer than StepDt. It returns the substep count.
func (m *Model) advance(elapsed float64) int {
	if !(elapsed > 0) {
		return 0
	}
	elapsed = min(elapsed, m.opts.MaxFrameDt)
	steps := max(int(math.Ceil(elapsed/m.opts.StepDt-1e-9)), 1)
	h := elapsed / float64(steps)
	for i := 0; i < steps; i++ {
		m.chain.Update(h)
	}
	m.chain.Project(dynamo.Point{})

	if len(m.energyHistory) == historyCapacity {
		copy(m.energyHistory, m.energyHistory[1:])
		m.energyHistory = m.energyHistory[:historyCapacity-1]
	}
	m.energyHistory = append(m.energyHistory, m.chain.Energy())
	return steps
}

func (m *Model) reset() {
	m.chain.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.initialEnergy = m.chain.Energy()
	m.message = ""
}

// cycleSolver moves to the next integrator, continuing from the current
// state.
func (m *Model) cycleSolver() {
	kinds := integrators.Kinds()
	next := kinds[0]
	for i, k := range kinds {
		if k == m.chain.Kind() {
			next = kinds[(i+1)%len(kinds)]
			break
		}
	}
	if err := m.chain.SwitchSolver(next); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "solver: " + next.String()
}

func (m *Model) exportTrace() {
	svg := export.TraceToSVG(m.chain.Trace(), 800, 800, string(m.theme.Trail))
	if svg == "" {
		m.message = "trace is empty"
		return
	}
	if err := os.WriteFile(traceFile, []byte(svg), 0644); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "saved " + traceFile
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas = NewCanvas(w-statsWidth-6, h-2)
}

// screen maps chain coordinates onto canvas sub-pixels. The anchor sits in
// the middle and y is mirrored so that θ = 0 hangs downward.
func (m *Model) screen() func(p dynamo.Point) (int, int) {
	cw, ch := m.canvas.SubSize()
	ax, ay := float64(cw)/2, float64(ch)/2
	reach := m.chain.LinkLength() * float64(m.chain.Len())
	scale := 0.45 * float64(min(cw, ch)) / reach
	return func(p dynamo.Point) (int, int) {
		return int(math.Round(ax + p.X*scale)), int(math.Round(ay - p.Y*scale))
	}
}

// draw renders the trail, the links and the joints onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	toScreen := m.screen()

	for _, p := range m.chain.Trace() {
		x, y := toScreen(p)
		m.canvas.Set(x, y)
	}

	joints := m.chain.Positions()
	if joints == nil {
		joints = m.chain.Project(dynamo.Point{})
	}
	px, py := toScreen(joints[0])
	m.canvas.DrawDisc(px, py, 1)
	for _, j := range joints[1:] {
		x, y := toScreen(j)
		m.canvas.DrawLine(px, py, x, y)
		m.canvas.DrawDisc(x, y, 1)
		px, py = x, y
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	t := m.theme
	canvasView := canvasStyle.Foreground(t.Chain).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(t.Text).Render(strings.ToUpper(m.opts.Title)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(t, m.running).Render(status) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(t.Trail).Render(chart) + "\n\n")
	}

	energy := m.chain.Energy()
	drift := 0.0
	if m.initialEnergy != 0 {
		drift = math.Abs(energy-m.initialEnergy) / math.Abs(m.initialEnergy)
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Solver", m.chain.Kind().String())
	row("Links", fmt.Sprintf("%d", m.chain.Len()))
	row("Time", fmt.Sprintf("%.2fs", m.chain.Time()))
	row("Steps", fmt.Sprintf("%d", m.chain.Steps()))
	row("Energy", fmt.Sprintf("%.4f", energy))
	s.WriteString(labelStyle.Render("Drift") + driftStyle(t, drift).Render(fmt.Sprintf("%.2e", drift)) + "\n")
	row("Trail", fmt.Sprintf("%d pts", m.chain.TraceLen()))

	speeds := m.chain.State().ThetaDots
	for i, v := range speeds {
		speeds[i] = math.Abs(v)
	}
	s.WriteString("\n" + labelStyle.Render("|θ̇| by link") + "\n" + SparklineChart(speeds, statsWidth-6, t) + "\n")

	if m.message != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Accent).Render(m.message) + "\n")
	}
	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause C:Clear R:Reset Q:Quit\nS:Solver T:Theme E:Export ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  C        - Clear the tip trail      ║
║  R        - Reset to initial state   ║
║  S        - Cycle integrator         ║
║  T        - Cycle themes             ║
║  E        - Export trail as SVG      ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for chain in the alternate screen.
func RunLive(chain *sim.Chain, opts LiveOptions) error {
	_, err := tea.NewProgram(NewModel(chain, opts), tea.WithAltScreen()).Run()
	return err
}
