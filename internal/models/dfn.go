package models

import (
	"math"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/params"
)

const (
	dfnNodes  = 3 // mesh nodes per electrode
	dfnShells = 5 // particle shells per node
)

// DFN is a reduced Doyle-Fuller-Newman model: a particle distribution
// at several through-thickness mesh nodes per electrode, with the
// interfacial current shared between nodes in proportion to the local
// exchange current, plus the SPMe electrolyte.
type DFN struct {
	p    *params.Values
	cp   cellParams
	opts Options
	el   electrolyte

	negOff  int
	posOff  int
	elOff   int
	tempOff int
	seiOff  int
	dim     int
	subs    []cell.SubmodelInfo
}

func NewDFN(p *params.Values, opts Options) (*DFN, error) {
	cp, err := loadCellParams(p)
	if err != nil {
		return nil, err
	}

	m := &DFN{p: p, cp: cp, opts: opts}
	m.el = newElectrolyte(dfnNodes, dfnNodes, dfnNodes,
		cp.neg.thick, cp.thickSep, cp.pos.thick,
		cp.epsElNeg, cp.epsElSep, cp.epsElPos,
		cp.diffEl, cp.transference)

	perElectrode := dfnNodes * dfnShells
	m.negOff = 0
	m.posOff = perElectrode
	m.elOff = 2 * perElectrode
	m.dim = 2*perElectrode + m.el.cells()
	m.subs = make([]cell.SubmodelInfo, 0, 2*dfnNodes+3)
	for i := 0; i < dfnNodes; i++ {
		m.subs = append(m.subs, cell.SubmodelInfo{
			Name:   "negative particle",
			Offset: m.negOff + i*dfnShells,
			Len:    dfnShells,
			Note:   nodeNote(i),
		})
	}
	for i := 0; i < dfnNodes; i++ {
		m.subs = append(m.subs, cell.SubmodelInfo{
			Name:   "positive particle",
			Offset: m.posOff + i*dfnShells,
			Len:    dfnShells,
			Note:   nodeNote(i),
		})
	}
	m.subs = append(m.subs, cell.SubmodelInfo{Name: "electrolyte", Offset: m.elOff, Len: m.el.cells(), Note: "1d salt diffusion with bruggeman tortuosity"})
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

func nodeNote(i int) string {
	switch i {
	case 0:
		return "mesh node at current collector"
	case dfnNodes - 1:
		return "mesh node at separator"
	default:
		return "interior mesh node"
	}
}

func (m *DFN) Name() string                   { return "dfn" }
func (m *DFN) StateDim() int                  { return m.dim }
func (m *DFN) Submodels() []cell.SubmodelInfo { return m.subs }

func (m *DFN) InitialState(soc float64) cell.State {
	x := make(cell.State, m.dim)
	xn, yp := m.cp.stoichAt(soc)
	for i := 0; i < dfnNodes*dfnShells; i++ {
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

// MaxStableDt bounds the solver step, limited by the electrolyte mesh.
func (m *DFN) MaxStableDt() float64 {
	dn := particleStableDt(m.cp.neg.radius, m.cp.neg.diff, dfnShells)
	dp := particleStableDt(m.cp.pos.radius, m.cp.pos.diff, dfnShells)
	return stabilityMargin * math.Min(m.el.stableDt(), math.Min(dn, dp))
}

func (m *DFN) Temperature(x cell.State) float64 {
	if m.tempOff >= 0 && m.tempOff < len(x) {
		return x[m.tempOff]
	}
	return m.cp.tAmb
}

func (m *DFN) ceSlice(x cell.State) []float64 {
	return x[m.elOff : m.elOff+m.el.cells()]
}

// reaction resolves the per-node interfacial current split for one
// electrode. Nodes with higher local exchange current carry a larger
// share of the applied current.
type reaction struct {
	flux []float64 // surface molar flux per node, mol/(m2 s)
	eta  []float64 // overpotential per node, V
	ocp  []float64 // open-circuit potential at node surface, V
	w    []float64 // current share per node
}

func (m *DFN) electrodeReaction(x cell.State, off int, e electrode, ocp params.OCP, ceByNode []float64, current, temp, sign float64) reaction {
	k := arrhenius(e.rate, m.cp.eaKin, temp, m.cp.tRef)
	d := arrhenius(e.diff, m.cp.eaDiff, temp, m.cp.tRef)

	// Nominal uniform flux used for the surface extrapolation guess.
	iNom := sign * current / (e.surfPerVol() * e.thick * m.cp.area)

	j0 := make([]float64, dfnNodes)
	css := make([]float64, dfnNodes)
	total := 0.0
	for i := 0; i < dfnNodes; i++ {
		shells := x[off+i*dfnShells : off+(i+1)*dfnShells]
		css[i] = surfaceConc(shells, e.radius, d, iNom/faraday, e.cmax)
		j0[i] = exchangeCurrent(k, ceByNode[i], css[i], e.cmax)
		total += j0[i]
	}

	r := reaction{
		flux: make([]float64, dfnNodes),
		eta:  make([]float64, dfnNodes),
		ocp:  make([]float64, dfnNodes),
		w:    make([]float64, dfnNodes),
	}
	for i := 0; i < dfnNodes; i++ {
		w := 1.0 / float64(dfnNodes)
		if total > 0 {
			w = j0[i] / total
		}
		r.w[i] = w
		iLocal := w * float64(dfnNodes) * iNom
		r.flux[i] = iLocal / faraday
		r.eta[i] = overpotential(iLocal, j0[i], temp)
		r.ocp[i] = ocp(css[i] / e.cmax)
	}
	return r
}

func (r reaction) potential() float64 {
	p := 0.0
	for i := range r.w {
		p += r.w[i] * (r.ocp[i] + r.eta[i])
	}
	return p
}

func (m *DFN) reactions(x cell.State, current, temp float64) (neg, pos reaction) {
	ce := m.ceSlice(x)
	ceNeg := make([]float64, dfnNodes)
	cePos := make([]float64, dfnNodes)
	for i := 0; i < dfnNodes; i++ {
		ceNeg[i] = math.Max(ce[i], 1)
		cePos[i] = math.Max(ce[2*dfnNodes+i], 1)
	}
	neg = m.electrodeReaction(x, m.negOff, m.cp.neg, m.p.OCPNeg, ceNeg, current, temp, 1)
	pos = m.electrodeReaction(x, m.posOff, m.cp.pos, m.p.OCPPos, cePos, current, temp, -1)
	return neg, pos
}

func (m *DFN) electrolyteDrop(x cell.State, current, temp float64) float64 {
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

func (m *DFN) seiResistance(x cell.State) float64 {
	thickness := m.cp.seiInit
	if m.seiOff >= 0 && m.seiOff < len(x) {
		thickness = x[m.seiOff]
	}
	return thickness * m.cp.seiResist / m.cp.neg.surfaceArea(m.cp.area)
}

func (m *DFN) Voltage(x cell.State, current float64) float64 {
	temp := m.Temperature(x)
	neg, pos := m.reactions(x, current, temp)
	r := m.cp.rContact + m.seiResistance(x)
	return pos.potential() - neg.potential() + m.electrolyteDrop(x, current, temp) - current*r
}

func (m *DFN) Derivative(x cell.State, current, t float64) cell.State {
	dx := make(cell.State, m.dim)
	temp := m.Temperature(x)
	neg, pos := m.reactions(x, current, temp)

	dn := arrhenius(m.cp.neg.diff, m.cp.eaDiff, temp, m.cp.tRef)
	dp := arrhenius(m.cp.pos.diff, m.cp.eaDiff, temp, m.cp.tRef)

	for i := 0; i < dfnNodes; i++ {
		off := m.negOff + i*dfnShells
		particleDeriv(dx[off:off+dfnShells], x[off:off+dfnShells], m.cp.neg.radius, dn, neg.flux[i])
	}
	for i := 0; i < dfnNodes; i++ {
		off := m.posOff + i*dfnShells
		particleDeriv(dx[off:off+dfnShells], x[off:off+dfnShells], m.cp.pos.radius, dp, pos.flux[i])
	}

	src := make([]float64, m.el.cells())
	for i := 0; i < dfnNodes; i++ {
		src[i] = (1.0 - m.cp.transference) * m.cp.neg.surfPerVol() * neg.flux[i]
		src[2*dfnNodes+i] = (1.0 - m.cp.transference) * m.cp.pos.surfPerVol() * pos.flux[i]
	}
	m.el.derivative(dx[m.elOff:m.elOff+m.el.cells()], m.ceSlice(x), src)

	if m.tempOff >= 0 {
		ocv := 0.0
		for i := 0; i < dfnNodes; i++ {
			ocv += pos.w[i]*pos.ocp[i] - neg.w[i]*neg.ocp[i]
		}
		v := m.Voltage(x, current)
		heat := current * (ocv - v)
		cooling := m.cp.hConv * m.cp.surfArea * (temp - m.cp.tAmb)
		dx[m.tempOff] = (heat - cooling) / (m.cp.mass * m.cp.cpHeat)
	}

	if m.seiOff >= 0 {
		etaNeg := 0.0
		for i := 0; i < dfnNodes; i++ {
			etaNeg += neg.w[i] * neg.eta[i]
		}
		dx[m.seiOff] = m.cp.seiRate * math.Exp(-faraday*etaNeg/(2.0*gasConst*temp))
	}

	return dx
}
