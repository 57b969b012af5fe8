package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestPickerListsEveryPreset(t *testing.T) {
	m := *NewInteractiveApp()
	view := m.View()
	for _, want := range []string{"double/chaos", "single/small", "triple/fold", "chain/curl"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu is missing %s", want)
		}
	}
}

func TestPickerStartsLiveView(t *testing.T) {
	m := *NewInteractiveApp()
	m = step(t, m, key("j"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateConfig || m.selected == nil {
		t.Fatal("enter should open the configuration screen")
	}

	// Raise gravity by one step, then type a new dt.
	m = step(t, m, key("j"))
	g := m.selected.Gravity
	m = step(t, m, key("l"))
	if math.Abs(m.selected.Gravity-(g+0.5)) > 1e-12 {
		t.Errorf("gravity = %v, want %v", m.selected.Gravity, g+0.5)
	}
	m = step(t, m, key("k"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for m.editBuf != "" {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	for _, r := range "0.002" {
		m = step(t, m, key(string(r)))
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.selected.Dt != 0.002 {
		t.Errorf("dt = %v, want 0.002", m.selected.Dt)
	}

	m = step(t, m, key("s"))
	if m.state != stateSim {
		t.Fatalf("s should start the simulation, error %q", m.err)
	}
	if m.liveModel.chain.Gravity() != g+0.5 {
		t.Error("live chain ignores the edited gravity")
	}
}

func TestPickerReportsInvalidConfig(t *testing.T) {
	m := *NewInteractiveApp()
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.selected.Dt = 0
	m = step(t, m, key("s"))
	if m.state != stateConfig || m.err == "" {
		t.Error("an invalid configuration must stay on the config screen with an error")
	}
}
