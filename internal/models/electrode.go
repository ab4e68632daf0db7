package models

import "math"

const (
	faraday  = 96485.33212 // C/mol
	gasConst = 8.314462618 // J/(mol K)
)

// electrode bundles the per-electrode geometry and material constants
// shared by SPM, SPMe and DFN.
type electrode struct {
	radius float64 // particle radius, m
	diff   float64 // solid diffusivity at t_ref, m2/s
	cmax   float64 // max lithium concentration, mol/m3
	rate   float64 // reaction rate constant
	epsAct float64 // active material volume fraction
	thick  float64 // electrode thickness, m
}

// surfPerVol is the active surface area per electrode volume, 1/m.
func (e electrode) surfPerVol() float64 {
	return 3.0 * e.epsAct / e.radius
}

// surfaceArea is the total active surface of the electrode, m2.
func (e electrode) surfaceArea(area float64) float64 {
	return e.surfPerVol() * e.thick * area
}

// particleDeriv fills dst with shell concentration rates for one
// spherical particle under finite-volume radial diffusion. outFlux is
// the molar flux leaving the particle surface, mol/(m2 s).
func particleDeriv(dst, shells []float64, radius, diff, outFlux float64) {
	n := len(shells)
	dr := radius / float64(n)

	for i := 0; i < n; i++ {
		rIn := float64(i) * dr
		rOut := float64(i+1) * dr

		var qIn, qOut float64
		if i > 0 {
			qIn = rIn * rIn * diff * (shells[i] - shells[i-1]) / dr
		}
		if i < n-1 {
			qOut = rOut * rOut * diff * (shells[i+1] - shells[i]) / dr
		} else {
			qOut = -rOut * rOut * outFlux
		}

		vol := (rOut*rOut*rOut - rIn*rIn*rIn) / 3.0
		dst[i] = (qOut - qIn) / vol
	}
}

// surfaceConc extrapolates the particle surface concentration from the
// outermost shell centre using the imposed surface flux.
func surfaceConc(shells []float64, radius, diff, outFlux, cmax float64) float64 {
	n := len(shells)
	dr := radius / float64(n)
	css := shells[n-1] - outFlux*(dr/2.0)/diff

	floor := 1e-3 * cmax
	if css < floor {
		return floor
	}
	if css > cmax-floor {
		return cmax - floor
	}
	return css
}

// exchangeCurrent is the Butler-Volmer exchange current density, A/m2.
func exchangeCurrent(rate, ce, css, cmax float64) float64 {
	arg := ce * css * (cmax - css)
	if arg < 0 {
		arg = 0
	}
	return rate * math.Sqrt(arg)
}

// overpotential inverts symmetric Butler-Volmer kinetics for the given
// interfacial current density, V.
func overpotential(iDen, j0, temp float64) float64 {
	return 2.0 * gasConst * temp / faraday * math.Asinh(iDen/(2.0*j0))
}

// arrhenius scales a transport or kinetic constant from t_ref to temp.
func arrhenius(val, ea, temp, tRef float64) float64 {
	return val * math.Exp(ea/gasConst*(1.0/tRef-1.0/temp))
}

// stabilityMargin keeps solver steps well below the explicit
// diffusion limit, covering Arrhenius growth of the diffusivities at
// elevated temperature.
const stabilityMargin = 0.5

// particleStableDt is the explicit stability bound for the radial
// finite-volume discretisation, dr^2/(2D).
func particleStableDt(radius, diff float64, shells int) float64 {
	dr := radius / float64(shells)
	return dr * dr / (2.0 * diff)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
