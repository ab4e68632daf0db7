package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/params"
)

const spmShells = 10

// SPM is the single particle model: one representative particle per
// electrode with radial diffusion and Butler-Volmer kinetics at the
// surface. Electrolyte effects are neglected.
type SPM struct {
	p    *params.Values
	cp   cellParams
	opts Options

	shells  int
	negOff  int
	posOff  int
	tempOff int
	seiOff  int
	dim     int
	subs    []cell.SubmodelInfo
}

func NewSPM(p *params.Values, opts Options) (*SPM, error) {
	cp, err := loadCellParams(p)
	if err != nil {
		return nil, err
	}

	m := &SPM{p: p, cp: cp, opts: opts, shells: spmShells}
	m.negOff = 0
	m.posOff = m.shells
	m.dim = 2 * m.shells
	m.subs = []cell.SubmodelInfo{
		{Name: "negative particle", Offset: m.negOff, Len: m.shells, Note: "radial diffusion, finite volume"},
		{Name: "positive particle", Offset: m.posOff, Len: m.shells, Note: "radial diffusion, finite volume"},
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

func (m *SPM) Name() string                   { return "spm" }
func (m *SPM) StateDim() int                  { return m.dim }
func (m *SPM) Submodels() []cell.SubmodelInfo { return m.subs }

func (m *SPM) InitialState(soc float64) cell.State {
	x := make(cell.State, m.dim)
	xn, yp := m.cp.stoichAt(soc)
	for i := 0; i < m.shells; i++ {
		x[m.negOff+i] = xn * m.cp.neg.cmax
		x[m.posOff+i] = yp * m.cp.pos.cmax
	}
	if m.tempOff >= 0 {
		x[m.tempOff] = m.cp.tAmb
	}
	if m.seiOff >= 0 {
		x[m.seiOff] = m.cp.seiInit
	}
	return x
}

// MaxStableDt bounds the solver step for the explicit particle
// discretisation, with margin for Arrhenius-accelerated diffusion.
func (m *SPM) MaxStableDt() float64 {
	dn := particleStableDt(m.cp.neg.radius, m.cp.neg.diff, m.shells)
	dp := particleStableDt(m.cp.pos.radius, m.cp.pos.diff, m.shells)
	return stabilityMargin * math.Min(dn, dp)
}

func (m *SPM) Temperature(x cell.State) float64 {
	if m.tempOff >= 0 && m.tempOff < len(x) {
		return x[m.tempOff]
	}
	return m.cp.tAmb
}

func (m *SPM) fluxes(current float64) (fluxNeg, fluxPos float64) {
	fluxNeg = current / (faraday * m.cp.neg.surfaceArea(m.cp.area))
	fluxPos = -current / (faraday * m.cp.pos.surfaceArea(m.cp.area))
	return fluxNeg, fluxPos
}

// surfaces evaluates surface concentration, OCP and overpotential for
// both electrodes.
func (m *SPM) surfaces(x cell.State, current, temp float64) (ocpNeg, ocpPos, etaNeg, etaPos float64) {
	fluxNeg, fluxPos := m.fluxes(current)
	dn := arrhenius(m.cp.neg.diff, m.cp.eaDiff, temp, m.cp.tRef)
	dp := arrhenius(m.cp.pos.diff, m.cp.eaDiff, temp, m.cp.tRef)

	cssNeg := surfaceConc(x[m.negOff:m.negOff+m.shells], m.cp.neg.radius, dn, fluxNeg, m.cp.neg.cmax)
	cssPos := surfaceConc(x[m.posOff:m.posOff+m.shells], m.cp.pos.radius, dp, fluxPos, m.cp.pos.cmax)

	ocpNeg = m.p.OCPNeg(cssNeg / m.cp.neg.cmax)
	ocpPos = m.p.OCPPos(cssPos / m.cp.pos.cmax)

	kn := arrhenius(m.cp.neg.rate, m.cp.eaKin, temp, m.cp.tRef)
	kp := arrhenius(m.cp.pos.rate, m.cp.eaKin, temp, m.cp.tRef)
	j0Neg := exchangeCurrent(kn, m.cp.ceInit, cssNeg, m.cp.neg.cmax)
	j0Pos := exchangeCurrent(kp, m.cp.ceInit, cssPos, m.cp.pos.cmax)

	iNeg := current / (m.cp.neg.surfPerVol() * m.cp.neg.thick * m.cp.area)
	iPos := -current / (m.cp.pos.surfPerVol() * m.cp.pos.thick * m.cp.area)
	etaNeg = overpotential(iNeg, j0Neg, temp)
	etaPos = overpotential(iPos, j0Pos, temp)
	return ocpNeg, ocpPos, etaNeg, etaPos
}

func (m *SPM) seiResistance(x cell.State) float64 {
	thickness := m.cp.seiInit
	if m.seiOff >= 0 && m.seiOff < len(x) {
		thickness = x[m.seiOff]
	}
	return thickness * m.cp.seiResist / m.cp.neg.surfaceArea(m.cp.area)
}

func (m *SPM) Voltage(x cell.State, current float64) float64 {
	temp := m.Temperature(x)
	ocpNeg, ocpPos, etaNeg, etaPos := m.surfaces(x, current, temp)
	r := m.cp.rContact + m.seiResistance(x)
	return ocpPos - ocpNeg + etaPos - etaNeg - current*r
}

func (m *SPM) Derivative(x cell.State, current, t float64) cell.State {
	dx := make(cell.State, m.dim)
	temp := m.Temperature(x)

	fluxNeg, fluxPos := m.fluxes(current)
	dn := arrhenius(m.cp.neg.diff, m.cp.eaDiff, temp, m.cp.tRef)
	dp := arrhenius(m.cp.pos.diff, m.cp.eaDiff, temp, m.cp.tRef)

	particleDeriv(dx[m.negOff:m.negOff+m.shells], x[m.negOff:m.negOff+m.shells], m.cp.neg.radius, dn, fluxNeg)
	particleDeriv(dx[m.posOff:m.posOff+m.shells], x[m.posOff:m.posOff+m.shells], m.cp.pos.radius, dp, fluxPos)

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
