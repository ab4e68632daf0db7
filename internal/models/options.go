package models

import (
	"github.com/san-kum/cellsim/internal/params"
)

// Options selects the optional physics submodels a model is composed
// with.
type Options struct {
	Thermal bool // lumped thermal balance with Arrhenius feedback
	SEI     bool // SEI film growth on the negative particle
}

// cellParams is the flat snapshot of a parameter set every model reads
// at construction time.
type cellParams struct {
	neg, pos     electrode
	area         float64
	rContact     float64
	ceInit       float64
	diffEl       float64
	kappaEl      float64
	transference float64
	epsElNeg     float64
	epsElSep     float64
	epsElPos     float64
	thickSep     float64
	x0, x100     float64
	y0, y100     float64
	capacityAh   float64
	tAmb, tRef   float64
	mass, cpHeat float64
	hConv        float64
	surfArea     float64
	eaDiff       float64
	eaKin        float64
	seiRate      float64
	seiResist    float64
	seiInit      float64
}

func loadCellParams(p *params.Values) (cellParams, error) {
	g := p.Getter()
	cp := cellParams{
		neg: electrode{
			radius: g.Get("radius_neg"),
			diff:   g.Get("diff_neg"),
			cmax:   g.Get("cs_max_neg"),
			rate:   g.Get("k_neg"),
			epsAct: g.Get("eps_act_neg"),
			thick:  g.Get("thick_neg"),
		},
		pos: electrode{
			radius: g.Get("radius_pos"),
			diff:   g.Get("diff_pos"),
			cmax:   g.Get("cs_max_pos"),
			rate:   g.Get("k_pos"),
			epsAct: g.Get("eps_act_pos"),
			thick:  g.Get("thick_pos"),
		},
		area:         g.Get("area"),
		rContact:     g.Get("r_contact"),
		ceInit:       g.Get("ce_init"),
		diffEl:       g.Get("diff_el"),
		kappaEl:      g.Get("kappa_el"),
		transference: g.Get("transference"),
		epsElNeg:     g.Get("eps_el_neg"),
		epsElSep:     g.Get("eps_el_sep"),
		epsElPos:     g.Get("eps_el_pos"),
		thickSep:     g.Get("thick_sep"),
		x0:           g.Get("x0_neg"),
		x100:         g.Get("x100_neg"),
		y0:           g.Get("y0_pos"),
		y100:         g.Get("y100_pos"),
		capacityAh:   g.Get("capacity_ah"),
		tAmb:         g.Get("t_amb"),
		tRef:         g.Get("t_ref"),
		mass:         g.Get("mass"),
		cpHeat:       g.Get("cp_heat"),
		hConv:        g.Get("h_conv"),
		surfArea:     g.Get("surf_area"),
		eaDiff:       g.Get("ea_diff"),
		eaKin:        g.Get("ea_kinetics"),
		seiRate:      g.Get("sei_rate"),
		seiResist:    g.Get("sei_resist"),
		seiInit:      g.Get("sei_init"),
	}
	return cp, g.Err()
}

func clampSOC(soc float64) float64 {
	if soc < 0 {
		return 0
	}
	if soc > 1 {
		return 1
	}
	return soc
}

// stoichAt maps state of charge to initial electrode stoichiometries
// inside the cell's operating windows.
func (cp cellParams) stoichAt(soc float64) (xNeg, yPos float64) {
	soc = clampSOC(soc)
	xNeg = cp.x0 + soc*(cp.x100-cp.x0)
	yPos = cp.y0 - soc*(cp.y0-cp.y100)
	return xNeg, yPos
}
