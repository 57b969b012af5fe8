package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/nchain/internal/config"
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuIdleDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type presetEntry struct {
	family, name string
}

func (p presetEntry) label() string { return p.family + "/" + p.name }

// param is one editable field of the configuration screen.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var params = []param{
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = v }, 0.0005},
	{"gravity", func(c *config.Config) float64 { return c.Gravity }, func(c *config.Config, v float64) { c.Gravity = v }, 0.5},
	{"arm_length", func(c *config.Config) float64 { return c.ArmLength }, func(c *config.Config, v float64) { c.ArmLength = v }, 0.1},
	{"spread", spread, setSpread, 0.1},
}

// spread is the release angle of the first link; setSpread rotates every
// link by the same amount so the preset's shape is kept.
func spread(c *config.Config) float64 { return c.InitState.Thetas[0] }

func setSpread(c *config.Config, v float64) {
	delta := v - c.InitState.Thetas[0]
	for i := range c.InitState.Thetas {
		c.InitState.Thetas[i] += delta
	}
}

// model is the preset picker that leads into the live view.
type model struct {
	state, cursor int
	presets       []presetEntry
	selected      *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	width, height int
	liveModel     Model
}

func NewInteractiveApp() *model {
	var entries []presetEntry
	for _, family := range config.Families() {
		for _, name := range config.ListPresets(family) {
			entries = append(entries, presetEntry{family, name})
		}
	}
	return &model{
		state:   stateMenu,
		presets: entries,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.liveModel.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		p := m.presets[m.cursor]
		m.selected = config.GetPreset(p.family, p.name)
		m.state, m.paramCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				params[m.paramCursor].set(m.selected, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	p := params[m.paramCursor]
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", p.get(m.selected))
	case "left", "h":
		p.set(m.selected, p.get(m.selected)-p.step)
	case "right", "l":
		p.set(m.selected, p.get(m.selected)+p.step)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *model) start() tea.Cmd {
	chain, err := m.selected.NewChain()
	if err != nil {
		m.err = err.Error()
		return nil
	}
	label := m.presets[m.cursor].label()
	m.liveModel = NewModel(chain, LiveOptions{
		Title:      label,
		StepDt:     m.selected.Dt,
		MaxFrameDt: m.selected.MaxFrameDt,
		FPS:        m.selected.FPS,
	})
	m.liveModel.resize(m.width, m.height)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func describe(cfg *config.Config) string {
	return fmt.Sprintf("%d links, %s", cfg.Links(), cfg.Solver)
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("NCHAIN") + "\n    " + menuSub.Render("n-link pendulum chains") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, p := range m.presets {
		desc := describe(config.Presets[p.family][p.name])
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-18s", p.label())), menuDesc.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-18s", p.label())), menuIdleDesc.Render(desc))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	label := m.presets[m.cursor].label()
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(label)) + "\n    " + menuSub.Render(describe(m.selected)) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%8.4f", p.get(m.selected))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", p.name)), menuDesc.Bold(true).Render(valStr))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", p.name)), menuIdleDesc.Render(valStr))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" select  ") + menuKey.Render("h/l") + menuIdle.Render(" adjust  ") + menuKey.Render("s") + menuIdle.Render(" start  ") + menuKey.Render("esc") + menuIdle.Render(" back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
