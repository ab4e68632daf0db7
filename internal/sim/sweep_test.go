package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/solvers"
)

func TestRange(t *testing.T) {
	vals, err := Range(0.5, 2.0, 0.5)
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("expected 4 values, got %d: %v", len(vals), vals)
	}
	if vals[0] != 0.5 || vals[3] != 2.0 {
		t.Errorf("range endpoints wrong: %v", vals)
	}
}

func TestRange_Errors(t *testing.T) {
	if _, err := Range(1, 2, 0); err == nil {
		t.Error("expected error for zero step")
	}
	if _, err := Range(1, 2, -0.5); err == nil {
		t.Error("expected error for negative step")
	}
	if _, err := Range(2, 1, 0.5); err == nil {
		t.Error("expected error for stop below start")
	}
}

func TestSweep_Run(t *testing.T) {
	currents := []float64{1, 2, 3, 4}

	// Each sweep value gets its own model and solver.
	sweep := NewSweep(currents, func(amps float64) (*Simulation, error) {
		m := &rampCell{rate: -0.001 * amps, v0: 4.0}
		return New(m, solvers.NewRK4(), fixedProto(amps)), nil
	})

	sols, err := sweep.Run(context.Background(), cell.Config{Dt: 1.0, Duration: 10.0, InitialSOC: 1.0})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(sols) != len(currents) {
		t.Fatalf("expected %d solutions, got %d", len(currents), len(sols))
	}

	// Results come back in sweep order: steeper ramps end lower.
	for i := 1; i < len(sols); i++ {
		prev := sols[i-1].Voltages[len(sols[i-1].Voltages)-1]
		curr := sols[i].Voltages[len(sols[i].Voltages)-1]
		if curr >= prev {
			t.Errorf("sweep order broken at index %d: %.4f >= %.4f", i, curr, prev)
		}
	}
}

func TestSweep_EmptyCurrents(t *testing.T) {
	sweep := NewSweep(nil, func(amps float64) (*Simulation, error) {
		return nil, fmt.Errorf("unreachable")
	})
	if _, err := sweep.Run(context.Background(), cell.Config{Dt: 1, Duration: 1, InitialSOC: 1}); err == nil {
		t.Error("expected error for empty sweep")
	}
}

func TestSweep_BuilderErrorPropagates(t *testing.T) {
	sweep := NewSweep([]float64{1, 2}, func(amps float64) (*Simulation, error) {
		if amps == 2 {
			return nil, fmt.Errorf("bad build")
		}
		m := &rampCell{rate: -0.001, v0: 4.0}
		return New(m, solvers.NewRK4(), fixedProto(amps)), nil
	})
	if _, err := sweep.Run(context.Background(), cell.Config{Dt: 1, Duration: 10, InitialSOC: 1}); err == nil {
		t.Error("expected builder error to propagate")
	}
}
