package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(statsWidth)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Padding(1, 0)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

func statusStyle(t Theme, running bool) lipgloss.Style {
	if running {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Good)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
}

// driftStyle colours a relative energy error by how worrying it is.
func driftStyle(t Theme, drift float64) lipgloss.Style {
	switch {
	case drift < 1e-3:
		return lipgloss.NewStyle().Foreground(t.Good)
	case drift < 1e-1:
		return lipgloss.NewStyle().Foreground(t.Warn)
	default:
		return lipgloss.NewStyle().Foreground(t.Bad).Bold(true)
	}
}

// SparklineChart renders one bar per value, scaled to the largest
// magnitude.
func SparklineChart(values []float64, width int, t Theme) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	// Sample to fit width
	step := max(len(values)/width, 1)

	high := lipgloss.NewStyle().Foreground(t.Bad)
	mid := lipgloss.NewStyle().Foreground(t.Warn)
	low := lipgloss.NewStyle().Foreground(t.Good)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(high.Render(c))
		case norm > 0.3:
			result.WriteString(mid.Render(c))
		default:
			result.WriteString(low.Render(c))
		}
	}
	return result.String()
}

// Separator draws a decorative rule of the given width.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
