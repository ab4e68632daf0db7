package models

import (
	"math"
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/solvers"
)

func loadChen(t *testing.T) *params.Values {
	t.Helper()
	p, err := params.Load("chen2020")
	if err != nil {
		t.Fatalf("load chen2020: %v", err)
	}
	return p
}

// discharge steps the model with RK4 at a step below its stability
// bound for a total of duration seconds.
func discharge(m cell.Model, x cell.State, amps, duration float64) cell.State {
	h := 1.0
	if lim, ok := m.(cell.StepLimiter); ok {
		if stable := lim.MaxStableDt(); stable > 0 && stable < h {
			h = stable
		}
	}
	solver := solvers.NewRK4()
	steps := int(duration / h)
	for i := 0; i < steps; i++ {
		x = solver.Step(m, x, amps, float64(i)*h, h)
	}
	return x
}

// shellTotal integrates shell concentrations over the particle volume,
// weighted by the finite-volume shell volumes (dropping the common 4*pi/3).
func shellTotal(shells []float64, radius float64) float64 {
	n := len(shells)
	dr := radius / float64(n)
	total := 0.0
	for i, c := range shells {
		rIn := float64(i) * dr
		rOut := float64(i+1) * dr
		total += c * (rOut*rOut*rOut - rIn*rIn*rIn)
	}
	return total / (radius * radius * radius)
}

// lithiumTotal is the cell lithium inventory per unit cell area, up to
// a common geometric factor. It must stay constant under any current.
func lithiumTotal(t *testing.T, p *params.Values, m cell.Model, x cell.State) float64 {
	t.Helper()
	g := p.Getter()
	radiusNeg := g.Get("radius_neg")
	radiusPos := g.Get("radius_pos")
	epsNeg := g.Get("eps_act_neg")
	epsPos := g.Get("eps_act_pos")
	thickNeg := g.Get("thick_neg")
	thickPos := g.Get("thick_pos")
	if err := g.Err(); err != nil {
		t.Fatalf("parameter lookup: %v", err)
	}

	total := 0.0
	for _, sub := range m.Submodels() {
		shells := x[sub.Offset : sub.Offset+sub.Len]
		switch sub.Name {
		case "negative particle":
			total += shellTotal(shells, radiusNeg) * epsNeg * thickNeg / float64(countSubs(m, sub.Name))
		case "positive particle":
			total += shellTotal(shells, radiusPos) * epsPos * thickPos / float64(countSubs(m, sub.Name))
		}
	}
	return total
}

func countSubs(m cell.Model, name string) int {
	n := 0
	for _, sub := range m.Submodels() {
		if sub.Name == name {
			n++
		}
	}
	return n
}

func TestSPM_StateDim(t *testing.T) {
	p := loadChen(t)

	m, err := NewSPM(p, Options{})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}
	if m.StateDim() != 2*spmShells {
		t.Errorf("expected dim %d, got %d", 2*spmShells, m.StateDim())
	}

	mt, err := NewSPM(p, Options{Thermal: true, SEI: true})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}
	if mt.StateDim() != 2*spmShells+2 {
		t.Errorf("expected dim %d, got %d", 2*spmShells+2, mt.StateDim())
	}
}

func TestSPM_SubmodelsPartitionState(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{Thermal: true, SEI: true})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}
	checkPartition(t, m)
}

// checkPartition verifies the submodel slices tile [0, StateDim) in
// order without gaps or overlaps.
func checkPartition(t *testing.T, m cell.Model) {
	t.Helper()
	next := 0
	for _, sub := range m.Submodels() {
		if sub.Offset != next {
			t.Errorf("submodel %q starts at %d, expected %d", sub.Name, sub.Offset, next)
		}
		if sub.Len <= 0 {
			t.Errorf("submodel %q has invalid length %d", sub.Name, sub.Len)
		}
		next = sub.Offset + sub.Len
	}
	if next != m.StateDim() {
		t.Errorf("submodels cover %d states, model has %d", next, m.StateDim())
	}
}

func TestSPM_RestVoltageIsOCV(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	g := p.Getter()
	xn := g.Get("x100_neg")
	yp := g.Get("y100_pos")
	if err := g.Err(); err != nil {
		t.Fatalf("parameter lookup: %v", err)
	}

	x := m.InitialState(1.0)
	got := m.Voltage(x, 0)
	want := p.OCPPos(yp) - p.OCPNeg(xn)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("rest voltage %.6f, expected OCV %.6f", got, want)
	}
	if got < 3.5 || got > 4.5 {
		t.Errorf("full-cell rest voltage out of range: %.4f V", got)
	}
}

func TestSPM_VoltageDropsOnDischarge(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	amps := 5.0 // 1C for chen2020
	x := m.InitialState(1.0)

	rest := m.Voltage(x, 0)
	loaded := m.Voltage(x, amps)
	if loaded >= rest {
		t.Errorf("loaded voltage %.4f not below rest voltage %.4f", loaded, rest)
	}

	solver := solvers.NewRK4()
	for i := 0; i < 300; i++ {
		x = solver.Step(m, x, amps, float64(i), 1.0)
	}
	if !x.IsValid() {
		t.Fatal("state became invalid during discharge")
	}

	after := m.Voltage(x, amps)
	if after >= loaded {
		t.Errorf("voltage did not fall during discharge: %.4f -> %.4f", loaded, after)
	}
}

func TestSPM_LithiumConservation(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	x := m.InitialState(0.8)
	before := lithiumTotal(t, p, m, x)

	solver := solvers.NewRK4()
	for i := 0; i < 600; i++ {
		x = solver.Step(m, x, 5.0, float64(i), 1.0)
	}

	after := lithiumTotal(t, p, m, x)
	drift := math.Abs(after-before) / before
	if drift > 1e-9 {
		t.Errorf("lithium inventory drifted by %e", drift)
	}
}

func TestSPM_ThermalHeatsUnderLoad(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{Thermal: true})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	x := m.InitialState(1.0)
	tAmb := m.Temperature(x)

	solver := solvers.NewRK4()
	for i := 0; i < 300; i++ {
		x = solver.Step(m, x, 10.0, float64(i), 1.0)
	}

	if m.Temperature(x) <= tAmb {
		t.Errorf("cell did not heat under 2C load: %.3f K vs ambient %.3f K", m.Temperature(x), tAmb)
	}
}

func TestSPM_SEIGrowsOnNegative(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{SEI: true})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	x := m.InitialState(1.0)
	seiOff := m.StateDim() - 1
	initial := x[seiOff]

	solver := solvers.NewRK4()
	for i := 0; i < 300; i++ {
		x = solver.Step(m, x, 5.0, float64(i), 1.0)
	}

	if x[seiOff] <= initial {
		t.Errorf("sei thickness did not grow: %.3e -> %.3e", initial, x[seiOff])
	}
}

func TestSPM_ZeroCurrentHoldsState(t *testing.T) {
	p := loadChen(t)
	m, err := NewSPM(p, Options{})
	if err != nil {
		t.Fatalf("NewSPM: %v", err)
	}

	// Uniform concentrations and no applied current: nothing moves.
	x := m.InitialState(0.5)
	dx := m.Derivative(x, 0, 0)
	for i, v := range dx {
		if math.Abs(v) > 1e-12 {
			t.Errorf("state %d changes at rest: %e", i, v)
		}
	}
}
