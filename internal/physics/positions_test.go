package physics

import (
	"math"
	"testing"

	"github.com/san-kum/nchain/internal/dynamo"
)

func TestProjectLength(t *testing.T) {
	origin := dynamo.Point{X: 320, Y: 240}
	for n := 1; n <= 12; n++ {
		thetas := make([]float64, n)
		for i := range thetas {
			thetas[i] = float64(i) * 0.37
		}
		pts := Project(thetas, origin, 10)
		if len(pts) != n+1 {
			t.Fatalf("n=%d: expected %d points, got %d", n, n+1, len(pts))
		}
		if pts[0] != origin {
			t.Errorf("n=%d: first point %v, want origin %v", n, pts[0], origin)
		}
	}
}

func TestProjectDirections(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		want  dynamo.Point
	}{
		{"zero points toward -y", 0, dynamo.Point{X: 0, Y: -2}},
		{"quarter turn points toward +x", math.Pi / 2, dynamo.Point{X: 2, Y: 0}},
		{"half turn points toward +y", math.Pi, dynamo.Point{X: 0, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := Project([]float64{tt.theta}, dynamo.Point{}, 2)
			if pts[1].Dist(tt.want) > 1e-12 {
				t.Errorf("tip = %v, want %v", pts[1], tt.want)
			}
		})
	}
}

func TestProjectCumulative(t *testing.T) {
	thetas := []float64{0.2, -0.5, 1.3}
	pts := Project(thetas, dynamo.Point{X: 1, Y: 1}, 3)
	for i := range thetas {
		if d := pts[i].Dist(pts[i+1]); math.Abs(d-3) > 1e-12 {
			t.Errorf("link %d has length %f, want 3", i, d)
		}
	}
}

func TestProjectIntoReusesBuffer(t *testing.T) {
	buf := make([]dynamo.Point, 4)
	thetas := []float64{0.1, 0.2, 0.3}
	got := ProjectInto(buf, thetas, dynamo.Point{}, 1)
	if &got[0] != &buf[0] {
		t.Error("ProjectInto should write into the supplied buffer")
	}

	allocs := testing.AllocsPerRun(100, func() {
		ProjectInto(buf, thetas, dynamo.Point{}, 1)
	})
	if allocs != 0 {
		t.Errorf("ProjectInto allocated %v times", allocs)
	}
}

func TestProjectDoesNotMutateAngles(t *testing.T) {
	thetas := []float64{0.5, 1.5}
	Project(thetas, dynamo.Point{}, 1)
	if thetas[0] != 0.5 || thetas[1] != 1.5 {
		t.Error("Project mutated its input")
	}
}
