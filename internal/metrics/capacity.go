package metrics

import "github.com/san-kum/cellsim/internal/cell"

// DischargedCapacity integrates the applied current over time, in Ah.
type DischargedCapacity struct {
	name    string
	coulomb float64
	lastT   float64
	samples int
}

func NewDischargedCapacity() *DischargedCapacity {
	return &DischargedCapacity{name: "capacity_ah"}
}

func (c *DischargedCapacity) Name() string { return c.name }

func (c *DischargedCapacity) Observe(x cell.State, v, i, t float64) {
	if c.samples > 0 {
		c.coulomb += i * (t - c.lastT)
	}
	c.lastT = t
	c.samples++
}

func (c *DischargedCapacity) Value() float64 {
	return c.coulomb / 3600.0
}

func (c *DischargedCapacity) Reset() {
	c.coulomb = 0
	c.lastT = 0
	c.samples = 0
}
