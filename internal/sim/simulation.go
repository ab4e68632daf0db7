package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cellsim/internal/cell"
)

// Simulation couples a cell model, a solver and an applied-current
// protocol and records the trajectory.
type Simulation struct {
	model     cell.Model
	solver    cell.Solver
	proto     cell.Protocol
	metrics   []cell.Metric
	observers []cell.Observer
}

func New(model cell.Model, solver cell.Solver, proto cell.Protocol) *Simulation {
	return &Simulation{
		model:     model,
		solver:    solver,
		proto:     proto,
		metrics:   make([]cell.Metric, 0),
		observers: make([]cell.Observer, 0),
	}
}

func (s *Simulation) Model() cell.Model           { return s.model }
func (s *Simulation) AddMetric(m cell.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o cell.Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Run(ctx context.Context, cfg cell.Config) (*cell.Solution, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	sol := &cell.Solution{
		Times:        make([]float64, 0, steps+1),
		States:       make([]cell.State, 0, steps+1),
		Voltages:     make([]float64, 0, steps+1),
		Currents:     make([]float64, 0, steps+1),
		Temperatures: make([]float64, 0, steps+1),
		Metrics:      make(map[string]float64),
		Termination:  cell.TermTime,
		Errors:       make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.model.InitialState(cfg.InitialSOC)
	if len(x) != s.model.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d values, model declares %d",
			cell.ErrDimensionMismatch, len(x), s.model.StateDim())
	}
	t := 0.0
	dt := cfg.Dt
	sub, h := s.substeps(cfg)

	record := func(x cell.State, t float64) float64 {
		i := s.proto.Current(t)
		v := s.model.Voltage(x, i)
		sol.Times = append(sol.Times, t)
		sol.States = append(sol.States, x.Clone())
		sol.Voltages = append(sol.Voltages, v)
		sol.Currents = append(sol.Currents, i)
		sol.Temperatures = append(sol.Temperatures, s.model.Temperature(x))
		return v
	}

	record(x, t)

	for t < cfg.Duration-dt/2 {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		i := s.proto.Current(t)
		v := s.model.Voltage(x, i)

		for _, m := range s.metrics {
			m.Observe(x, v, i, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, v, i, t)
		}

		var newX cell.State
		var stepErr error
		advance := cfg.Dt

		if cfg.Adaptive {
			newX, advance, dt, stepErr = s.adaptiveStep(x, i, t, dt, cfg)
			if stepErr != nil {
				sol.Errors = append(sol.Errors, stepErr)
				sol.Termination = cell.TermError
				break
			}
		} else {
			newX = x
			for k := 0; k < sub; k++ {
				newX = s.solver.Step(s.model, newX, i, t+float64(k)*h, h)
			}
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := &cell.SolutionError{Time: t, Step: sol.StepsTaken, State: newX, Wrapped: cell.ErrInvalidState}
			sol.Errors = append(sol.Errors, err)
			sol.Termination = cell.TermError
			break
		}

		x = newX
		t += advance
		sol.StepsTaken++

		v = record(x, t)

		if cfg.MinVoltage > 0 && v <= cfg.MinVoltage {
			sol.Termination = cell.TermMinVoltage
			break
		}
		if cfg.MaxVoltage > 0 && v >= cfg.MaxVoltage {
			sol.Termination = cell.TermMaxVoltage
			break
		}
	}

	for _, m := range s.metrics {
		sol.Metrics[m.Name()] = m.Value()
	}

	return sol, nil
}

func (s *Simulation) validateConfig(cfg cell.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.InitialSOC < 0 || cfg.InitialSOC > 1 {
		return fmt.Errorf("initial soc must be in [0, 1], got %f", cfg.InitialSOC)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

// substeps splits the recording interval into solver steps that stay
// below the model's explicit stability bound.
func (s *Simulation) substeps(cfg cell.Config) (int, float64) {
	if lim, ok := s.model.(cell.StepLimiter); ok {
		if stable := lim.MaxStableDt(); stable > 0 && cfg.Dt > stable {
			n := int(math.Ceil(cfg.Dt / stable))
			return n, cfg.Dt / float64(n)
		}
	}
	return 1, cfg.Dt
}

// adaptiveStep advances x by one error-controlled step. It returns the
// new state, the step actually integrated and the step to try next.
func (s *Simulation) adaptiveStep(x cell.State, current, t, dt float64, cfg cell.Config) (cell.State, float64, float64, error) {
	if adaptive, ok := s.solver.(cell.AdaptiveSolver); ok {
		newX, usedDt, nextDt, err := adaptive.StepAdaptive(s.model, x, current, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, dt, dt, err
		}
		if usedDt < cfg.MinDt {
			return nil, dt, dt, cell.ErrStepTooSmall
		}
		if nextDt > cfg.MaxDt {
			nextDt = cfg.MaxDt
		}
		if nextDt < cfg.MinDt {
			nextDt = cfg.MinDt
		}
		return newX, usedDt, nextDt, nil
	}

	// Step-doubling error estimate for fixed-step solvers.
	x1 := s.solver.Step(s.model, x, current, t, dt)
	xHalf := s.solver.Step(s.model, x, current, t, dt/2)
	x2 := s.solver.Step(s.model, xHalf, current, t+dt/2, dt/2)

	errEst := x1.Sub(x2).Norm()

	if errEst > cfg.Tolerance && dt/2 >= cfg.MinDt {
		return s.adaptiveStep(x, current, t, dt/2, cfg)
	}
	if errEst > cfg.Tolerance {
		return nil, dt, dt, cell.ErrStepTooSmall
	}

	next := dt
	if errEst < cfg.Tolerance/10 && dt*2 <= cfg.MaxDt {
		next = dt * 2
	}

	return x2, dt, next, nil
}

// RunWithCallback steps the simulation, invoking callback on every
// step; returning false from the callback stops the run.
func (s *Simulation) RunWithCallback(ctx context.Context, cfg cell.Config, callback func(x cell.State, v, i, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := s.model.InitialState(cfg.InitialSOC)
	t := 0.0
	sub, h := s.substeps(cfg)

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		i := s.proto.Current(t)
		v := s.model.Voltage(x, i)

		if !callback(x, v, i, t) {
			return nil
		}
		if cfg.MinVoltage > 0 && v <= cfg.MinVoltage {
			return nil
		}

		for k := 0; k < sub; k++ {
			x = s.solver.Step(s.model, x, i, t+float64(k)*h, h)
		}
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
