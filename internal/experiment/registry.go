package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/metrics"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/protocol"
	"github.com/san-kum/cellsim/internal/solvers"
)

type Registry struct {
	models  map[string]func(*params.Values, models.Options) (cell.Model, error)
	solvers map[string]func() cell.Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(*params.Values, models.Options) (cell.Model, error)),
		solvers: make(map[string]func() cell.Solver),
	}

	r.models["spm"] = func(p *params.Values, opts models.Options) (cell.Model, error) {
		return models.NewSPM(p, opts)
	}
	r.models["spme"] = func(p *params.Values, opts models.Options) (cell.Model, error) {
		return models.NewSPMe(p, opts)
	}
	r.models["dfn"] = func(p *params.Values, opts models.Options) (cell.Model, error) {
		return models.NewDFN(p, opts)
	}

	r.solvers["euler"] = func() cell.Solver { return solvers.NewEuler() }
	r.solvers["rk4"] = func() cell.Solver { return solvers.NewRK4() }
	r.solvers["rk45"] = func() cell.Solver { return solvers.NewRK45() }

	return r
}

func (r *Registry) GetModel(name string, p *params.Values, opts models.Options) (cell.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, r.ListModels())
	}
	return fn(p, opts)
}

func (r *Registry) GetSolver(name string) (cell.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s (available: %v)", name, r.ListSolvers())
	}
	return fn(), nil
}

func (r *Registry) GetProtocol(cfg Config) (cell.Protocol, error) {
	switch cfg.Protocol {
	case "", "constant":
		return protocol.NewConstant(cfg.Current), nil
	case "pulse":
		if cfg.PulseOn <= 0 || cfg.PulseRest <= 0 {
			return nil, fmt.Errorf("pulse protocol needs positive on/rest times")
		}
		return protocol.NewPulse(cfg.Current, cfg.PulseOn, cfg.PulseRest), nil
	case "sine":
		if cfg.SineFreq <= 0 {
			return nil, fmt.Errorf("sine protocol needs a positive frequency")
		}
		return protocol.NewSine(cfg.Current, cfg.SineAmp, cfg.SineFreq), nil
	default:
		return nil, fmt.Errorf("unknown protocol: %s", cfg.Protocol)
	}
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSolvers() []string {
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(m cell.Model) []cell.Metric {
	return []cell.Metric{
		metrics.NewDischargedCapacity(),
		metrics.NewEnergy(),
		metrics.NewMeanPower(),
		metrics.NewMinVoltage(),
		metrics.NewPeakTemperature(m),
	}
}
