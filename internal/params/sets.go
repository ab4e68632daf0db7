package params

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// bounds limits the plausible physical range per key. Keys without an
// entry are unconstrained.
var bounds = map[string][2]float64{
	"thick_neg":    {1e-6, 1e-3},
	"thick_sep":    {1e-6, 1e-3},
	"thick_pos":    {1e-6, 1e-3},
	"area":         {1e-4, 10},
	"radius_neg":   {1e-8, 1e-4},
	"radius_pos":   {1e-8, 1e-4},
	"eps_act_neg":  {0.01, 1},
	"eps_act_pos":  {0.01, 1},
	"eps_el_neg":   {0.01, 1},
	"eps_el_sep":   {0.01, 1},
	"eps_el_pos":   {0.01, 1},
	"cs_max_neg":   {1000, 1e5},
	"cs_max_pos":   {1000, 1e5},
	"ce_init":      {10, 1e4},
	"x0_neg":       {0, 1},
	"x100_neg":     {0, 1},
	"y0_pos":       {0, 1},
	"y100_pos":     {0, 1},
	"diff_neg":     {1e-18, 1e-10},
	"diff_pos":     {1e-18, 1e-10},
	"diff_el":      {1e-12, 1e-8},
	"kappa_el":     {1e-3, 10},
	"transference": {0, 1},
	"k_neg":        {1e-12, 1e-3},
	"k_pos":        {1e-12, 1e-3},
	"r_contact":    {0, 1},
	"capacity_ah":  {0.01, 1000},
	"v_min":        {1.5, 3.5},
	"v_max":        {3.5, 5.0},
	"mass":         {1e-3, 100},
	"cp_heat":      {100, 5000},
	"h_conv":       {0, 1000},
	"surf_area":    {1e-5, 10},
	"t_amb":        {233.15, 333.15},
	"t_ref":        {273.15, 323.15},
	"ea_diff":      {0, 1e5},
	"ea_kinetics":  {0, 1e5},
	"sei_rate":     {0, 1e-9},
	"sei_resist":   {0, 1e7},
	"sei_init":     {0, 1e-6},
}

// physical mirrors the parameters every model requires; validator/v10
// enforces presence and positivity after overrides are applied.
type physical struct {
	ThickNeg  float64 `validate:"required,gt=0"`
	ThickSep  float64 `validate:"required,gt=0"`
	ThickPos  float64 `validate:"required,gt=0"`
	Area      float64 `validate:"required,gt=0"`
	RadiusNeg float64 `validate:"required,gt=0"`
	RadiusPos float64 `validate:"required,gt=0"`
	CsMaxNeg  float64 `validate:"required,gt=0"`
	CsMaxPos  float64 `validate:"required,gt=0"`
	CeInit    float64 `validate:"required,gt=0"`
	DiffNeg   float64 `validate:"required,gt=0"`
	DiffPos   float64 `validate:"required,gt=0"`
	KNeg      float64 `validate:"required,gt=0"`
	KPos      float64 `validate:"required,gt=0"`
	X100Neg   float64 `validate:"required,gt=0,lte=1"`
	Y100Pos   float64 `validate:"required,gt=0,lte=1"`
	Capacity  float64 `validate:"required,gt=0"`
}

var validate = validator.New()

// Validate checks that the set carries every parameter the models need
// with physically sensible values.
func (v *Values) Validate() error {
	g := v.Getter()
	p := physical{
		ThickNeg:  g.Get("thick_neg"),
		ThickSep:  g.Get("thick_sep"),
		ThickPos:  g.Get("thick_pos"),
		Area:      g.Get("area"),
		RadiusNeg: g.Get("radius_neg"),
		RadiusPos: g.Get("radius_pos"),
		CsMaxNeg:  g.Get("cs_max_neg"),
		CsMaxPos:  g.Get("cs_max_pos"),
		CeInit:    g.Get("ce_init"),
		DiffNeg:   g.Get("diff_neg"),
		DiffPos:   g.Get("diff_pos"),
		KNeg:      g.Get("k_neg"),
		KPos:      g.Get("k_pos"),
		X100Neg:   g.Get("x100_neg"),
		Y100Pos:   g.Get("y100_pos"),
		Capacity:  g.Get("capacity_ah"),
	}
	if err := g.Err(); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return errors.Wrapf(err, "parameter set %s failed validation", v.name)
	}
	return nil
}

var library = map[string]func() *Values{
	"chen2020":    chen2020,
	"marquis2019": marquis2019,
	"ecker2015":   ecker2015,
}

// Load builds a fresh copy of a named chemistry set.
func Load(name string) (*Values, error) {
	fn, ok := library[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSet, "%q (available: %v)", name, List())
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// chen2020 is an LG M50 21700 cell (NMC811 / graphite-SiOx).
func chen2020() *Values {
	return &Values{
		name:   "chen2020",
		ocpNeg: ocpGraphiteChen,
		ocpPos: ocpNMCChen,
		vals: map[string]float64{
			"thick_neg":    85.2e-6,
			"thick_sep":    12.0e-6,
			"thick_pos":    75.6e-6,
			"area":         0.1027,
			"radius_neg":   5.86e-6,
			"radius_pos":   5.22e-6,
			"eps_act_neg":  0.75,
			"eps_act_pos":  0.665,
			"eps_el_neg":   0.25,
			"eps_el_sep":   0.47,
			"eps_el_pos":   0.335,
			"cs_max_neg":   33133,
			"cs_max_pos":   63104,
			"ce_init":      1000,
			"x0_neg":       0.0263,
			"x100_neg":     0.9106,
			"y0_pos":       0.9084,
			"y100_pos":     0.2661,
			"diff_neg":     3.3e-14,
			"diff_pos":     4.0e-15,
			"diff_el":      1.77e-10,
			"kappa_el":     0.95,
			"transference": 0.2594,
			"k_neg":        6.48e-7,
			"k_pos":        3.42e-6,
			"r_contact":    0.010,
			"capacity_ah":  5.0,
			"v_min":        2.5,
			"v_max":        4.2,
			"mass":         0.0685,
			"cp_heat":      1100,
			"h_conv":       10,
			"surf_area":    5.3e-3,
			"t_amb":        298.15,
			"t_ref":        298.15,
			"ea_diff":      30e3,
			"ea_kinetics":  35e3,
			"sei_rate":     1.0e-14,
			"sei_resist":   2.0e5,
			"sei_init":     5.0e-9,
		},
	}
}

// marquis2019 is a Kokam SLPB pouch cell (LCO / graphite).
func marquis2019() *Values {
	return &Values{
		name:   "marquis2019",
		ocpNeg: ocpGraphiteMarquis,
		ocpPos: ocpLCOMarquis,
		vals: map[string]float64{
			"thick_neg":    100.0e-6,
			"thick_sep":    25.4e-6,
			"thick_pos":    100.0e-6,
			"area":         0.0568,
			"radius_neg":   10.0e-6,
			"radius_pos":   10.0e-6,
			"eps_act_neg":  0.60,
			"eps_act_pos":  0.50,
			"eps_el_neg":   0.30,
			"eps_el_sep":   0.40,
			"eps_el_pos":   0.30,
			"cs_max_neg":   24983,
			"cs_max_pos":   51218,
			"ce_init":      1000,
			"x0_neg":       0.0220,
			"x100_neg":     0.8330,
			"y0_pos":       0.9510,
			"y100_pos":     0.4490,
			"diff_neg":     3.9e-14,
			"diff_pos":     1.0e-13,
			"diff_el":      2.0e-10,
			"kappa_el":     1.1,
			"transference": 0.4,
			"k_neg":        2.0e-6,
			"k_pos":        6.0e-7,
			"r_contact":    0.020,
			"capacity_ah":  0.68,
			"v_min":        3.1,
			"v_max":        4.1,
			"mass":         0.0172,
			"cp_heat":      1000,
			"h_conv":       10,
			"surf_area":    2.8e-3,
			"t_amb":        298.15,
			"t_ref":        298.15,
			"ea_diff":      42e3,
			"ea_kinetics":  39e3,
			"sei_rate":     1.0e-14,
			"sei_resist":   2.0e5,
			"sei_init":     5.0e-9,
		},
	}
}

// ecker2015 is a Kokam high-power pouch cell (NMC / graphite).
func ecker2015() *Values {
	return &Values{
		name:   "ecker2015",
		ocpNeg: ocpGraphiteEcker,
		ocpPos: ocpNMCEcker,
		vals: map[string]float64{
			"thick_neg":    74.0e-6,
			"thick_sep":    20.0e-6,
			"thick_pos":    54.0e-6,
			"area":         0.3900,
			"radius_neg":   13.7e-6,
			"radius_pos":   6.5e-6,
			"eps_act_neg":  0.694,
			"eps_act_pos":  0.372,
			"eps_el_neg":   0.329,
			"eps_el_sep":   0.508,
			"eps_el_pos":   0.296,
			"cs_max_neg":   31920,
			"cs_max_pos":   48580,
			"ce_init":      1000,
			"x0_neg":       0.0380,
			"x100_neg":     0.8160,
			"y0_pos":       0.8890,
			"y100_pos":     0.2720,
			"diff_neg":     1.2e-14,
			"diff_pos":     5.0e-14,
			"diff_el":      2.6e-10,
			"kappa_el":     0.96,
			"transference": 0.26,
			"k_neg":        1.1e-6,
			"k_pos":        3.0e-6,
			"r_contact":    0.004,
			"capacity_ah":  7.5,
			"v_min":        2.7,
			"v_max":        4.2,
			"mass":         0.2080,
			"cp_heat":      1050,
			"h_conv":       12,
			"surf_area":    1.6e-2,
			"t_amb":        298.15,
			"t_ref":        296.15,
			"ea_diff":      48e3,
			"ea_kinetics":  44e3,
			"sei_rate":     1.0e-14,
			"sei_resist":   2.0e5,
			"sei_init":     5.0e-9,
		},
	}
}
