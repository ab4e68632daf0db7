package solvers

import (
	"math"
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
)

func oscillatorEnergy(x cell.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	solver := NewRK45()
	m := &oscillator{}

	x := cell.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = solver.Step(m, x, 0, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	solver := NewRK45()
	m := &oscillator{}

	x := cell.State{1.0, 0.0}
	initialEnergy := oscillatorEnergy(x)
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = solver.Step(m, x, 0, float64(i)*dt, dt)
	}

	drift := math.Abs(oscillatorEnergy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	solver := NewRK45()
	m := &oscillator{}

	x, usedDt, nextDt, err := solver.StepAdaptive(m, cell.State{1.0, 0.0}, 0, 0, 0.1, 1e-8)

	if err != nil {
		t.Errorf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if usedDt <= 0 || usedDt > 0.1 {
		t.Errorf("StepAdaptive consumed invalid dt: %f", usedDt)
	}
	if nextDt <= 0 {
		t.Errorf("StepAdaptive suggested invalid dt: %f", nextDt)
	}
}

func TestRK45_AdaptiveStepRejectsOversizedStep(t *testing.T) {
	solver := NewRK45()
	m := &oscillator{}

	// A huge step against a tight tolerance must be rejected and
	// retried at a smaller size, not accepted as-is.
	x, usedDt, _, err := solver.StepAdaptive(m, cell.State{1.0, 0.0}, 0, 0, 10.0, 1e-12)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if usedDt >= 10.0 {
		t.Fatalf("oversized step was accepted, usedDt=%f", usedDt)
	}

	// The accepted step must actually meet the tolerance: the state
	// advanced by usedDt should sit on the exact solution cos(t).
	if got, want := x[0], math.Cos(usedDt); math.Abs(got-want) > 1e-9 {
		t.Errorf("accepted step off exact solution by %e", math.Abs(got-want))
	}
	if got, want := x[1], -math.Sin(usedDt); math.Abs(got-want) > 1e-9 {
		t.Errorf("accepted velocity off exact solution by %e", math.Abs(got-want))
	}
}
