package metrics

import (
	"math"

	"github.com/san-kum/cellsim/internal/cell"
)

// MinVoltage tracks the lowest terminal voltage seen during a run.
type MinVoltage struct {
	name    string
	min     float64
	samples int
}

func NewMinVoltage() *MinVoltage {
	return &MinVoltage{name: "min_voltage", min: math.Inf(1)}
}

func (m *MinVoltage) Name() string { return m.name }

func (m *MinVoltage) Observe(x cell.State, v, i, t float64) {
	if v < m.min {
		m.min = v
	}
	m.samples++
}

func (m *MinVoltage) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinVoltage) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// PeakTemperature tracks the highest cell temperature seen during a
// run, in K.
type PeakTemperature struct {
	name  string
	model cell.Model
	max   float64
}

func NewPeakTemperature(model cell.Model) *PeakTemperature {
	return &PeakTemperature{name: "peak_temp_k", model: model}
}

func (p *PeakTemperature) Name() string { return p.name }

func (p *PeakTemperature) Observe(x cell.State, v, i, t float64) {
	temp := p.model.Temperature(x)
	if temp > p.max {
		p.max = temp
	}
}

func (p *PeakTemperature) Value() float64 { return p.max }

func (p *PeakTemperature) Reset() { p.max = 0 }
