package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/params"
)

const (
	spmeShells   = 10
	spmeCellsNeg = 4
	spmeCellsSep = 3
	spmeCellsPos = 4
)

// SPMe extends the single particle model with a 1D electrolyte:
// salt concentration cells across both electrodes and the separator,
// a concentration overpotential and an electrolyte ohmic drop.
type SPMe struct {
	p    *params.Values
	cp   cellParams
	opts Options
	el   electrolyte

	shells  int
	negOff  int
	posOff  int
	elOff   int
	tempOff int
	seiOff  int
	dim     int
	subs    []cell.SubmodelInfo
}

func NewSPMe(p *params.Values, opts Options) (*SPMe, error) {
	cp, err := loadCellParams(p)
	if err != nil {
		return nil, err
	}

	m := &SPMe{p: p, cp: cp, opts: opts, shells: spmeShells}
	m.el = newElectrolyte(spmeCellsNeg, spmeCellsSep, spmeCellsPos,
		cp.neg.thick, cp.thickSep, cp.pos.thick,
		cp.epsElNeg, cp.epsElSep, cp.epsElPos,
		cp.diffEl, cp.transference)

	m.negOff = 0
	m.posOff = m.shells
	m.elOff = 2 * m.shells
	m.dim = 2*m.shells + m.el.cells()
	m.subs = []cell.SubmodelInfo{
		{Name: "negative particle", Offset: m.negOff, Len: m.shells, Note: "radial diffusion, finite volume"},
		{Name: "positive particle", Offset: m.posOff, Len: m.shells, Note: "radial diffusion, finite volume"},
		{Name: "electrolyte", Offset: m.elOff, Len: m.el.cells(), Note: "1d salt diffusion with bruggeman tortuosity"},
	}
	m.tempOff = -1
	m.seiOff = -1
	if opts.Thermal {
		m.tempOff = m.dim
		m.dim++
		m.subs = append(m.subs, cell.SubmodelInfo{Name: "lumped thermal", Offset: m.tempOff, Len: 1, Note: "single cell temperature"})
	}
	if opts.SEI {
		m.seiOff = m.dim
		m.dim++
		m.subs = append(m.subs, cell.SubmodelInfo{Name: "sei growth", Offset: m.seiOff, Len: 1, Note: "film thickness on negative particle"})
	}
	return m, nil
}

func (m *SPMe) Name() string                   { return "spme" }
func (m *SPMe) StateDim() int                  { return m.dim }
func (m *SPMe) Submodels() []cell.SubmodelInfo { return m.subs }

func (m *SPMe) InitialState(soc float64) cell.State {
	x := make(cell.State, m.dim)
	xn, yp := m.cp.stoichAt(soc)
	for i := 0; i < m.shells; i++ {
		x[m.negOff+i] = xn * m.cp.neg.cmax
		x[m.posOff+i] = yp * m.cp.pos.cmax
	}
	for i := 0; i < m.el.cells(); i++ {
		x[m.elOff+i] = m.cp.ceInit
	}
	if m.tempOff >= 0 {
		x[m.tempOff] = m.cp.tAmb
	}
	if m.seiOff >= 0 {
		x[m.seiOff] = m.cp.seiInit
	}
	return x
}

// MaxStableDt bounds the solver step. The electrolyte mesh is far
// stiffer than the particles and sets the limit in practice.
func (m *SPMe) MaxStableDt() float64 {
	dn := particleStableDt(m.cp.neg.radius, m.cp.neg.diff, m.shells)
	dp := particleStableDt(m.cp.pos.radius, m.cp.pos.diff, m.shells)
	return stabilityMargin * math.Min(m.el.stableDt(), math.Min(dn, dp))
}

func (m *SPMe) Temperature(x cell.State) float64 {
	if m.tempOff >= 0 && m.tempOff < len(x) {
		return x[m.tempOff]
	}
	return m.cp.tAmb
}

func (m *SPMe) fluxes(current float64) (fluxNeg, fluxPos float64) {
	fluxNeg = current / (faraday * m.cp.neg.surfaceArea(m.cp.area))
	fluxPos = -current / (faraday * m.cp.pos.surfaceArea(m.cp.area))
	return fluxNeg, fluxPos
}

func (m *SPMe) ceSlice(x cell.State) []float64 {
	return x[m.elOff : m.elOff+m.el.cells()]
}

func (m *SPMe) surfaces(x cell.State, current, temp float64) (ocpNeg, ocpPos, etaNeg, etaPos float64) {
	fluxNeg, fluxPos := m.fluxes(current)
	dn := arrhenius(m.cp.neg.diff, m.cp.eaDiff, temp, m.cp.tRef)
	dp := arrhenius(m.cp.pos.diff, m.cp.eaDiff, temp, m.cp.tRef)

	cssNeg := surfaceConc(x[m.negOff:m.negOff+m.shells], m.cp.neg.radius, dn, fluxNeg, m.cp.neg.cmax)
	cssPos := surfaceConc(x[m.posOff:m.posOff+m.shells], m.cp.pos.radius, dp, fluxPos, m.cp.pos.cmax)

	ocpNeg = m.p.OCPNeg(cssNeg / m.cp.neg.cmax)
	ocpPos = m.p.OCPPos(cssPos / m.cp.pos.cmax)

	ce := m.ceSlice(x)
	ceNeg := m.el.meanNeg(ce)
	cePos := m.el.meanPos(ce)
	if ceNeg < 1 {
		ceNeg = 1
	}
	if cePos < 1 {
		cePos = 1
	}

	kn := arrhenius(m.cp.neg.rate, m.cp.eaKin, temp, m.cp.tRef)
	kp := arrhenius(m.cp.pos.rate, m.cp.eaKin, temp, m.cp.tRef)
	j0Neg := exchangeCurrent(kn, ceNeg, cssNeg, m.cp.neg.cmax)
	j0Pos := exchangeCurrent(kp, cePos, cssPos, m.cp.pos.cmax)

	iNeg := current / (m.cp.neg.surfPerVol() * m.cp.neg.thick * m.cp.area)
	iPos := -current / (m.cp.pos.surfPerVol() * m.cp.pos.thick * m.cp.area)
	etaNeg = overpotential(iNeg, j0Neg, temp)
	etaPos = overpotential(iPos, j0Pos, temp)
	return ocpNeg, ocpPos, etaNeg, etaPos
}

// electrolyteDrop combines the concentration overpotential and the
// ohmic drop across the electrolyte.
func (m *SPMe) electrolyteDrop(x cell.State, current, temp float64) float64 {
	ce := m.ceSlice(x)
	ceNeg := m.el.meanNeg(ce)
	cePos := m.el.meanPos(ce)
	if ceNeg < 1 || cePos < 1 {
		return 0
	}

	etaConc := 2.0 * gasConst * temp * (1.0 - m.cp.transference) / faraday * math.Log(cePos/ceNeg)

	rEl := (0.5*m.cp.neg.thick/(m.cp.kappaEl*bruggeman(m.cp.epsElNeg)) +
		m.cp.thickSep/(m.cp.kappaEl*bruggeman(m.cp.epsElSep)) +
		0.5*m.cp.pos.thick/(m.cp.kappaEl*bruggeman(m.cp.epsElPos))) / m.cp.area

	return etaConc - current*rEl
}

func (m *SPMe) seiResistance(x cell.State) float64 {
	thickness := m.cp.seiInit
	if m.seiOff >= 0 && m.seiOff < len(x) {
		thickness = x[m.seiOff]
	}
	return thickness * m.cp.seiResist / m.cp.neg.surfaceArea(m.cp.area)
}

func (m *SPMe) Voltage(x cell.State, current float64) float64 {
	temp := m.Temperature(x)
	ocpNeg, ocpPos, etaNeg, etaPos := m.surfaces(x, current, temp)
	r := m.cp.rContact + m.seiResistance(x)
	return ocpPos - ocpNeg + etaPos - etaNeg + m.electrolyteDrop(x, current, temp) - current*r
}

func (m *SPMe) Derivative(x cell.State, current, t float64) cell.State {
	dx := make(cell.State, m.dim)
	temp := m.Temperature(x)

	fluxNeg, fluxPos := m.fluxes(current)
	dn := arrhenius(m.cp.neg.diff, m.cp.eaDiff, temp, m.cp.tRef)
	dp := arrhenius(m.cp.pos.diff, m.cp.eaDiff, temp, m.cp.tRef)

	particleDeriv(dx[m.negOff:m.negOff+m.shells], x[m.negOff:m.negOff+m.shells], m.cp.neg.radius, dn, fluxNeg)
	particleDeriv(dx[m.posOff:m.posOff+m.shells], x[m.posOff:m.posOff+m.shells], m.cp.pos.radius, dp, fluxPos)

	// Salt source: lithium enters the electrolyte where it leaves the
	// particles, scaled by the anion transference.
	src := make([]float64, m.el.cells())
	srcNeg := (1.0 - m.cp.transference) * m.cp.neg.surfPerVol() * fluxNeg
	srcPos := (1.0 - m.cp.transference) * m.cp.pos.surfPerVol() * fluxPos
	for i := 0; i < m.el.nNeg; i++ {
		src[i] = srcNeg
	}
	for i := m.el.nNeg + m.el.nSep; i < m.el.cells(); i++ {
		src[i] = srcPos
	}
	m.el.derivative(dx[m.elOff:m.elOff+m.el.cells()], m.ceSlice(x), src)

	if m.tempOff >= 0 {
		ocpNeg, ocpPos, _, _ := m.surfaces(x, current, temp)
		ocv := ocpPos - ocpNeg
		v := m.Voltage(x, current)
		heat := current * (ocv - v)
		cooling := m.cp.hConv * m.cp.surfArea * (temp - m.cp.tAmb)
		dx[m.tempOff] = (heat - cooling) / (m.cp.mass * m.cp.cpHeat)
	}

	if m.seiOff >= 0 {
		_, _, etaNeg, _ := m.surfaces(x, current, temp)
		dx[m.seiOff] = m.cp.seiRate * math.Exp(-faraday*etaNeg/(2.0*gasConst*temp))
	}

	return dx
}
