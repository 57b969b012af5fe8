package analysis

import (
	"strings"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Coord selects one scalar out of a chain state.
type Coord struct {
	Link     int
	Velocity bool
}

func (c Coord) of(s dynamo.ChainState) float64 {
	if c.Velocity {
		return s.ThetaDots[c.Link]
	}
	return s.Thetas[c.Link]
}

func (c Coord) valid(s dynamo.ChainState) bool {
	return c.Link >= 0 && c.Link < s.Len()
}

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	X, Y   Coord
	Points []dynamo.Point
}

// PhasePortrait collects the (x, y) coordinates of every recorded state.
func PhasePortrait(states []dynamo.ChainState, x, y Coord) *PhasePortrait2D {
	if len(states) == 0 || !x.valid(states[0]) || !y.valid(states[0]) {
		return nil
	}

	portrait := &PhasePortrait2D{
		X:      x,
		Y:      y,
		Points: make([]dynamo.Point, 0, len(states)),
	}
	for _, s := range states {
		portrait.Points = append(portrait.Points, dynamo.Point{X: x.of(s), Y: y.of(s)})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Points []dynamo.Point
}

// GeneratePoincareSection records (x, y) each time the cross coordinate
// passes upward through threshold, interpolating between samples.
func GeneratePoincareSection(states []dynamo.ChainState, cross Coord, threshold float64, x, y Coord) *PoincareSection {
	if len(states) == 0 || !cross.valid(states[0]) || !x.valid(states[0]) || !y.valid(states[0]) {
		return nil
	}

	section := &PoincareSection{Points: make([]dynamo.Point, 0)}
	prev := states[0]
	for _, s := range states[1:] {
		pv, cv := cross.of(prev), cross.of(s)
		if pv < threshold && cv >= threshold {
			frac := (threshold - pv) / (cv - pv)
			section.Points = append(section.Points, dynamo.Point{
				X: x.of(prev) + frac*(x.of(s)-x.of(prev)),
				Y: y.of(prev) + frac*(y.of(s)-y.of(prev)),
			})
		}
		prev = s
	}
	return section
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
