package solvers

import (
	"math"
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
)

// oscillator is a two-state harmonic oscillator with a known solution,
// used to check integrator accuracy. The applied current is ignored.
type oscillator struct{}

func (o *oscillator) Name() string  { return "oscillator" }
func (o *oscillator) StateDim() int { return 2 }

func (o *oscillator) Derivative(x cell.State, current, t float64) cell.State {
	return cell.State{x[1], -x[0]}
}

func (o *oscillator) InitialState(soc float64) cell.State {
	return cell.State{1.0, 0.0}
}

func (o *oscillator) Voltage(x cell.State, current float64) float64 { return x[0] }
func (o *oscillator) Temperature(x cell.State) float64              { return 298.15 }

func (o *oscillator) Submodels() []cell.SubmodelInfo {
	return []cell.SubmodelInfo{{Name: "oscillator", Offset: 0, Len: 2}}
}

func TestRK4Accuracy(t *testing.T) {
	m := &oscillator{}
	solver := NewRK4()

	x := cell.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = solver.Step(m, x, 0, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	m := &oscillator{}
	solver := NewRK4()

	x := cell.State{1.0, 0.0}
	solver.Step(m, x, 0, 0, 0.01)

	if x[0] != 1.0 || x[1] != 0.0 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	m := &oscillator{}
	solver := NewEuler()

	// With dt = 1e-4 the Euler error after one radian stays below 1e-3.
	x := cell.State{1.0, 0.0}
	dt := 1e-4
	steps := 10000

	for i := 0; i < steps; i++ {
		x = solver.Step(m, x, 0, float64(i)*dt, dt)
	}

	expected := math.Cos(float64(steps) * dt)
	if math.Abs(x[0]-expected) > 1e-3 {
		t.Errorf("euler error too large: got %.6f, expected %.6f", x[0], expected)
	}
}
