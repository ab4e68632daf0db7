package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/cellsim/internal/cell"
)

// Sweep solves one simulation per applied-current value, in parallel.
// The builder must return a fresh Simulation for every value: solvers
// carry scratch buffers and must not be shared across goroutines.
type Sweep struct {
	currents []float64
	build    func(amps float64) (*Simulation, error)
}

func NewSweep(currents []float64, build func(amps float64) (*Simulation, error)) *Sweep {
	return &Sweep{currents: currents, build: build}
}

// Range expands a [start, stop] interval with the given step into sweep
// values, inclusive of both ends.
func Range(start, stop, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %f", step)
	}
	if stop < start {
		return nil, fmt.Errorf("sweep stop %f is below start %f", stop, start)
	}
	vals := make([]float64, 0)
	for v := start; v <= stop+step/2; v += step {
		vals = append(vals, v)
	}
	return vals, nil
}

func (s *Sweep) Run(ctx context.Context, cfg cell.Config) ([]*cell.Solution, error) {
	if len(s.currents) == 0 {
		return nil, fmt.Errorf("sweep has no current values")
	}

	sols := make([]*cell.Solution, len(s.currents))
	errs := make([]error, len(s.currents))

	var wg sync.WaitGroup
	for i, amps := range s.currents {
		wg.Add(1)
		go func(idx int, amps float64) {
			defer wg.Done()

			simulation, err := s.build(amps)
			if err != nil {
				errs[idx] = err
				return
			}
			sols[idx], errs[idx] = simulation.Run(ctx, cfg)
		}(i, amps)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return sols, nil
}

// Currents returns the swept values in run order.
func (s *Sweep) Currents() []float64 { return s.currents }
