package metrics

import "github.com/san-kum/cellsim/internal/cell"

// Energy integrates delivered electrical energy over time, in Wh.
type Energy struct {
	name    string
	joules  float64
	lastT   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_wh"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x cell.State, v, i, t float64) {
	if e.samples > 0 {
		e.joules += v * i * (t - e.lastT)
	}
	e.lastT = t
	e.samples++
}

func (e *Energy) Value() float64 {
	return e.joules / 3600.0
}

func (e *Energy) Reset() {
	e.joules = 0
	e.lastT = 0
	e.samples = 0
}

// MeanPower averages instantaneous power over the run, in W.
type MeanPower struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPower() *MeanPower {
	return &MeanPower{name: "mean_power_w"}
}

func (p *MeanPower) Name() string { return p.name }

func (p *MeanPower) Observe(x cell.State, v, i, t float64) {
	p.sum += v * i
	p.samples++
}

func (p *MeanPower) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *MeanPower) Reset() {
	p.sum = 0
	p.samples = 0
}
