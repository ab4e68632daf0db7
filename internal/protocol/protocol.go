package protocol

import (
	"fmt"
	"math"
)

// Applied-current programs. Positive current discharges the cell.

type Constant struct {
	Amps float64
}

func NewConstant(amps float64) *Constant {
	return &Constant{Amps: amps}
}

// NewCRate converts a C-rate to a constant current for the given
// nominal capacity.
func NewCRate(rate, capacityAh float64) *Constant {
	return &Constant{Amps: rate * capacityAh}
}

func (c *Constant) Current(t float64) float64 { return c.Amps }

func (c *Constant) Label() string {
	return fmt.Sprintf("constant %.3f A", c.Amps)
}

// Pulse alternates current-on and rest periods (GITT-style).
type Pulse struct {
	Amps   float64
	OnTime float64
	Rest   float64
}

func NewPulse(amps, onTime, rest float64) *Pulse {
	return &Pulse{Amps: amps, OnTime: onTime, Rest: rest}
}

func (p *Pulse) Current(t float64) float64 {
	period := p.OnTime + p.Rest
	if period <= 0 {
		return p.Amps
	}
	phase := math.Mod(t, period)
	if phase < p.OnTime {
		return p.Amps
	}
	return 0
}

func (p *Pulse) Label() string {
	return fmt.Sprintf("pulse %.3f A (%.0fs on / %.0fs rest)", p.Amps, p.OnTime, p.Rest)
}

// Sine superimposes a ripple on a DC offset.
type Sine struct {
	Offset    float64
	Amplitude float64
	Frequency float64 // Hz
}

func NewSine(offset, amplitude, frequency float64) *Sine {
	return &Sine{Offset: offset, Amplitude: amplitude, Frequency: frequency}
}

func (s *Sine) Current(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.Frequency*t)
}

func (s *Sine) Label() string {
	return fmt.Sprintf("sine %.3f A ± %.3f A @ %.3f Hz", s.Offset, s.Amplitude, s.Frequency)
}
