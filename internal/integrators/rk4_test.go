package integrators

import (
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/physics"
)

func newIntegrator(t *testing.T, kind Kind, n int) dynamo.Integrator {
	t.Helper()
	integ, err := New(kind, n, physics.StandardGravity)
	if err != nil {
		t.Fatalf("New(%s): %v", kind, err)
	}
	return integ
}

func TestZeroStepIsNoOp(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			thetas := []float64{0.4, -1.1, 2.5}
			dots := []float64{1.0, 0.0, -3.0}
			wantThetas := append([]float64(nil), thetas...)
			wantDots := append([]float64(nil), dots...)

			integ := newIntegrator(t, kind, 3)
			for i := 0; i < 5; i++ {
				integ.Solve(0, thetas, dots)
			}

			for i := range thetas {
				if thetas[i] != wantThetas[i] || dots[i] != wantDots[i] {
					t.Fatalf("dt=0 changed link %d: (%v, %v) -> (%v, %v)",
						i, wantThetas[i], wantDots[i], thetas[i], dots[i])
				}
			}
		})
	}
}

func TestRK4HorizontalDoublePendulumFalls(t *testing.T) {
	thetas := []float64{math.Pi / 2, math.Pi / 2}
	dots := []float64{0, 0}

	integ := newIntegrator(t, RungeKutta4, 2)
	integ.Solve(0.01, thetas, dots)

	if !(thetas[0] < math.Pi/2) {
		t.Errorf("expected gravity to pull the first link down, theta0 = %.10f", thetas[0])
	}
	s := dynamo.ChainState{Thetas: thetas, ThetaDots: dots}
	if !s.IsValid() {
		t.Errorf("non-finite state after one step: %v %v", thetas, dots)
	}
}

func TestAccelerationOfHorizontalDoublePendulum(t *testing.T) {
	// M = [[2,1],[1,1]], f = -g·[2,1]  =>  θ̈ = [-g, 0]
	b := newBase(2, physics.StandardGravity)
	acc := make([]float64, 2)
	b.accelerate([]float64{math.Pi / 2, math.Pi / 2}, []float64{0, 0}, acc)

	if math.Abs(acc[0]+physics.StandardGravity) > 1e-12 || math.Abs(acc[1]) > 1e-12 {
		t.Errorf("expected [-g, 0], got %v", acc)
	}
}

// measurePeriod returns the time between the first and third zero crossings
// of a single pendulum released from rest at theta0.
func measurePeriod(integ dynamo.Integrator, theta0, dt, maxTime float64) float64 {
	thetas := []float64{theta0}
	dots := []float64{0}
	crossings := make([]float64, 0, 3)

	prev, now := theta0, 0.0
	for now < maxTime && len(crossings) < 3 {
		integ.Solve(dt, thetas, dots)
		now += dt
		if (prev > 0) != (thetas[0] > 0) {
			frac := prev / (prev - thetas[0])
			crossings = append(crossings, now-dt+frac*dt)
		}
		prev = thetas[0]
	}
	if len(crossings) < 3 {
		return math.NaN()
	}
	return crossings[2] - crossings[0]
}

func TestSmallAnglePeriod(t *testing.T) {
	want := 2 * math.Pi * math.Sqrt(1/physics.StandardGravity)

	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			got := measurePeriod(newIntegrator(t, kind, 1), 0.05, 0.001, 5)
			if math.IsNaN(got) {
				t.Fatal("pendulum never completed a period")
			}
			if rel := math.Abs(got-want) / want; rel > 0.02 {
				t.Errorf("period %.5f, want %.5f (rel err %.4f)", got, want, rel)
			}
		})
	}
}

func TestRK4Accuracy(t *testing.T) {
	// Linearised single pendulum: θ(t) = θ₀·cos(ωt).
	theta0 := 1e-3
	omega := math.Sqrt(physics.StandardGravity)
	dt := 0.001
	steps := 1000

	thetas := []float64{theta0}
	dots := []float64{0}
	integ := NewRK4(1, physics.StandardGravity)
	for i := 0; i < steps; i++ {
		integ.Solve(dt, thetas, dots)
	}

	tEnd := float64(steps) * dt
	expected := theta0 * math.Cos(omega*tEnd)
	if math.Abs(thetas[0]-expected) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", thetas[0], expected)
	}
}

func TestSymplecticEulerUpdateOrder(t *testing.T) {
	// From rest, velocity-first means the angle already moves in the first step.
	thetas := []float64{0.5}
	dots := []float64{0}
	dt := 0.01

	NewSymplecticEuler(1, physics.StandardGravity).Solve(dt, thetas, dots)

	acc := -physics.StandardGravity * math.Sin(0.5)
	if math.Abs(dots[0]-dt*acc) > 1e-12 {
		t.Errorf("velocity = %v, want %v", dots[0], dt*acc)
	}
	if math.Abs(thetas[0]-(0.5+dt*dt*acc)) > 1e-12 {
		t.Errorf("angle = %v, want %v", thetas[0], 0.5+dt*dt*acc)
	}
}

func TestLeapfrogMatchesVelocityVerletForSingleLink(t *testing.T) {
	theta, dot := 0.8, 0.3
	dt := 0.02
	g := physics.StandardGravity

	a0 := -g * math.Sin(theta)
	halfDot := dot + 0.5*dt*a0
	wantTheta := theta + dt*halfDot
	wantDot := halfDot + 0.5*dt*(-g*math.Sin(wantTheta))

	thetas := []float64{theta}
	dots := []float64{dot}
	NewLeapfrog(1, g).Solve(dt, thetas, dots)

	if math.Abs(thetas[0]-wantTheta) > 1e-12 || math.Abs(dots[0]-wantDot) > 1e-12 {
		t.Errorf("got (%v, %v), want (%v, %v)", thetas[0], dots[0], wantTheta, wantDot)
	}
}

func TestLongChainIsDeterministic(t *testing.T) {
	// A chain long enough to fan out must agree with itself regardless of
	// how rows are scheduled.
	n := dynamo.RowChunk*2 + 3
	mk := func() ([]float64, []float64) {
		thetas := make([]float64, n)
		dots := make([]float64, n)
		for i := range thetas {
			thetas[i] = 0.01 * float64(i%7)
		}
		return thetas, dots
	}

	t1, d1 := mk()
	t2, d2 := mk()
	a := NewRK4(n, physics.StandardGravity)
	b := NewRK4(n, physics.StandardGravity)
	for i := 0; i < 3; i++ {
		a.Solve(0.001, t1, d1)
		b.Solve(0.001, t2, d2)
	}
	for i := range t1 {
		if t1[i] != t2[i] || d1[i] != d2[i] {
			t.Fatalf("link %d differs between identical runs", i)
		}
	}
}

func TestSolveDoesNotAllocate(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			integ := newIntegrator(t, kind, 4)
			thetas := []float64{0.1, 0.2, 0.3, 0.4}
			dots := make([]float64, 4)

			allocs := testing.AllocsPerRun(200, func() {
				integ.Solve(0.001, thetas, dots)
			})
			if allocs != 0 {
				t.Errorf("Solve allocated %v times per step", allocs)
			}
		})
	}
}

func TestSolveDoesNotAllocateUpToRowChunk(t *testing.T) {
	// Above RowChunk links ParallelFor starts goroutines, which allocate.
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(4))

	n := dynamo.RowChunk
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			integ := newIntegrator(t, kind, n)
			thetas := make([]float64, n)
			for i := range thetas {
				thetas[i] = 0.05 * float64(i%7)
			}
			dots := make([]float64, n)

			allocs := testing.AllocsPerRun(50, func() {
				integ.Solve(0.0005, thetas, dots)
			})
			if allocs != 0 {
				t.Errorf("Solve with %d links allocated %v times per step", n, allocs)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"rk4", RungeKutta4, false},
		{"RungeKutta4", RungeKutta4, false},
		{"symplectic_euler", SymplecticEuler, false},
		{" euler ", SymplecticEuler, false},
		{"leapfrog", Leapfrog, false},
		{"verlet", Leapfrog, false},
		{"rk45", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.err {
			if !errors.Is(err, dynamo.ErrUnknownSolver) {
				t.Errorf("ParseKind(%q): expected ErrUnknownSolver, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("round trip of %v gave %v, %v", k, parsed, err)
		}
	}
	if s := Kind(42).String(); s != "Kind(42)" {
		t.Errorf("unexpected name for unknown kind: %s", s)
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	if _, err := New(RungeKutta4, 0, physics.StandardGravity); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for n=0, got %v", err)
	}
	if _, err := New(Kind(9), 2, physics.StandardGravity); !errors.Is(err, dynamo.ErrUnknownSolver) {
		t.Errorf("expected ErrUnknownSolver, got %v", err)
	}
}

func TestNewBuildsSolverForKind(t *testing.T) {
	var _ dynamo.Integrator = (*RK4)(nil)
	var _ dynamo.Integrator = (*SymplecticEulerSolver)(nil)
	var _ dynamo.Integrator = (*LeapfrogSolver)(nil)

	if _, ok := newIntegrator(t, RungeKutta4, 2).(*RK4); !ok {
		t.Error("rk4 kind built the wrong solver")
	}
	if _, ok := newIntegrator(t, SymplecticEuler, 2).(*SymplecticEulerSolver); !ok {
		t.Error("symplectic_euler kind built the wrong solver")
	}
	if _, ok := newIntegrator(t, Leapfrog, 2).(*LeapfrogSolver); !ok {
		t.Error("leapfrog kind built the wrong solver")
	}
}

func TestEvaluationsPerStep(t *testing.T) {
	want := map[Kind]int{RungeKutta4: 4, SymplecticEuler: 1, Leapfrog: 2}
	for _, k := range Kinds() {
		if got := k.Evaluations(); got != want[k] {
			t.Errorf("%s: %d evaluations, want %d", k, got, want[k])
		}
	}
}
