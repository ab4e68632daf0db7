package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

type Config struct {
	Model     string
	Solver    string
	ParamSet  string
	Current   float64 // amps, positive = discharge
	Protocol  string  // constant (default), pulse, sine
	PulseOn   float64
	PulseRest float64
	SineAmp   float64
	SineFreq  float64
	Overrides map[string]float64
	Options   models.Options
	Solve     cell.Config
}

type Experiment struct {
	cfg        Config
	simulation *sim.Simulation
	values     *params.Values
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(m cell.Model, solver cell.Solver, proto cell.Protocol, ms []cell.Metric) error {
	e.simulation = sim.New(m, solver, proto)
	for _, metric := range ms {
		e.simulation.AddMetric(metric)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*cell.Solution, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulation.Run(ctx, e.cfg.Solve)
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation { return e.simulation }

// Values returns the resolved parameter set after overrides.
func (e *Experiment) Values() *params.Values { return e.values }

// Build resolves the experiment config against the registry: parameter
// set plus overrides, model, solver and protocol.
func Build(cfg Config) (*Experiment, error) {
	reg := NewRegistry()

	p, err := params.Load(cfg.ParamSet)
	if err != nil {
		return nil, err
	}
	if err := p.Update(cfg.Overrides); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m, err := reg.GetModel(cfg.Model, p, cfg.Options)
	if err != nil {
		return nil, err
	}
	solver, err := reg.GetSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}
	proto, err := reg.GetProtocol(cfg)
	if err != nil {
		return nil, err
	}

	e := New(cfg)
	e.values = p
	if err := e.Setup(m, solver, proto, reg.DefaultMetrics(m)); err != nil {
		return nil, err
	}
	return e, nil
}
