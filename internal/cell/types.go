package cell

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// SubmodelInfo describes one physics component of a composed model and
// the slice of the state vector it owns.
type SubmodelInfo struct {
	Name   string
	Offset int
	Len    int
	Note   string
}

// Model is a lithium-ion cell model expressed as an ODE system
// dX/dt = f(X, I, t), with the applied current I in amperes
// (positive = discharge).
type Model interface {
	Name() string
	Derivative(x State, current, t float64) State
	StateDim() int
	InitialState(soc float64) State
	Voltage(x State, current float64) float64
	Temperature(x State) float64
	Submodels() []SubmodelInfo
}

// Protocol supplies the applied current as a function of time.
type Protocol interface {
	Current(t float64) float64
	Label() string
}

type Solver interface {
	Step(m Model, x State, current, t, dt float64) State
}

// AdaptiveSolver controls its own step size. StepAdaptive advances the
// state by usedDt (at most the requested dt, shrunk until the local
// error estimate meets tol) and suggests nextDt for the following step.
type AdaptiveSolver interface {
	Solver
	StepAdaptive(m Model, x State, current, t, dt, tol float64) (x2 State, usedDt, nextDt float64, err error)
}

// StepLimiter is implemented by models whose explicit spatial
// discretisation bounds the stable solver timestep. The simulation
// subdivides each recording interval into steps below the bound.
type StepLimiter interface {
	MaxStableDt() float64
}

type Metric interface {
	Name() string
	Observe(x State, voltage, current, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, voltage, current, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	InitialSOC    float64
	MinVoltage    float64
	MaxVoltage    float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Duration:      3600.0,
		InitialSOC:    1.0,
		MinVoltage:    2.5,
		MaxVoltage:    4.3,
		Tolerance:     1e-6,
		MaxDt:         10.0,
		MinDt:         1e-4,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Termination reasons recorded on a Solution.
const (
	TermTime       = "time"
	TermMinVoltage = "voltage_min"
	TermMaxVoltage = "voltage_max"
	TermError      = "error"
)

type Solution struct {
	Times        []float64
	States       []State
	Voltages     []float64
	Currents     []float64
	Temperatures []float64
	Metrics      map[string]float64
	StepsTaken   int
	Termination  string
	Errors       []error
}

// Final returns the last recorded state, or nil for an empty solution.
func (s *Solution) Final() State {
	if len(s.States) == 0 {
		return nil
	}
	return s.States[len(s.States)-1]
}
