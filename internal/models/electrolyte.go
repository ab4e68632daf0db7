package models

import "math"

// electrolyte is a 1D finite-volume discretisation of lithium salt
// concentration across negative electrode / separator / positive
// electrode, shared by SPMe and DFN.
type electrolyte struct {
	nNeg, nSep, nPos int
	dxNeg            float64
	dxSep            float64
	dxPos            float64
	epsNeg           float64
	epsSep           float64
	epsPos           float64
	diff             float64 // bulk electrolyte diffusivity, m2/s
	transference     float64
}

func newElectrolyte(nNeg, nSep, nPos int, thickNeg, thickSep, thickPos, epsNeg, epsSep, epsPos, diff, transference float64) electrolyte {
	return electrolyte{
		nNeg: nNeg, nSep: nSep, nPos: nPos,
		dxNeg:  thickNeg / float64(nNeg),
		dxSep:  thickSep / float64(nSep),
		dxPos:  thickPos / float64(nPos),
		epsNeg: epsNeg, epsSep: epsSep, epsPos: epsPos,
		diff:         diff,
		transference: transference,
	}
}

func (e electrolyte) cells() int { return e.nNeg + e.nSep + e.nPos }

// bruggeman corrects bulk transport for tortuosity.
func bruggeman(eps float64) float64 {
	return math.Pow(eps, 1.5)
}

func (e electrolyte) cellWidth(i int) float64 {
	switch {
	case i < e.nNeg:
		return e.dxNeg
	case i < e.nNeg+e.nSep:
		return e.dxSep
	default:
		return e.dxPos
	}
}

func (e electrolyte) cellPorosity(i int) float64 {
	switch {
	case i < e.nNeg:
		return e.epsNeg
	case i < e.nNeg+e.nSep:
		return e.epsSep
	default:
		return e.epsPos
	}
}

// derivative fills dst with concentration rates. src carries the molar
// source per unit electrode volume (mol/m3/s) for every cell; separator
// cells must be zero.
func (e electrolyte) derivative(dst, ce, src []float64) {
	n := e.cells()
	for i := 0; i < n; i++ {
		dx := e.cellWidth(i)
		eps := e.cellPorosity(i)

		var qLeft, qRight float64
		if i > 0 {
			dWall := harmonic(e.diff*bruggeman(e.cellPorosity(i-1)), e.diff*bruggeman(eps))
			dxWall := 0.5 * (e.cellWidth(i-1) + dx)
			qLeft = dWall * (ce[i] - ce[i-1]) / dxWall
		}
		if i < n-1 {
			dWall := harmonic(e.diff*bruggeman(eps), e.diff*bruggeman(e.cellPorosity(i+1)))
			dxWall := 0.5 * (dx + e.cellWidth(i+1))
			qRight = dWall * (ce[i+1] - ce[i]) / dxWall
		}

		dst[i] = ((qRight-qLeft)/dx + src[i]) / eps
	}
}

func harmonic(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}

// meanNeg and meanPos average the salt concentration over each
// electrode region.
func (e electrolyte) meanNeg(ce []float64) float64 {
	return mean(ce[:e.nNeg])
}

func (e electrolyte) meanPos(ce []float64) float64 {
	return mean(ce[e.nNeg+e.nSep:])
}

// stableDt is the explicit diffusion stability bound over the mesh,
// eps*dx^2/(2*Deff) at the tightest cell. The thin separator cells
// dominate.
func (e electrolyte) stableDt() float64 {
	limit := math.Inf(1)
	for i := 0; i < e.cells(); i++ {
		eps := e.cellPorosity(i)
		dx := e.cellWidth(i)
		deff := e.diff * bruggeman(eps)
		if dt := eps * dx * dx / (2.0 * deff); dt < limit {
			limit = dt
		}
	}
	return limit
}
