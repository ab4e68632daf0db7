package params

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParameter = errors.New("unknown parameter")
var ErrParameterBounds = errors.New("parameter out of valid bounds")
var ErrUnknownSet = errors.New("unknown parameter set")

// OCP is an open-circuit potential fit as a function of stoichiometry.
type OCP func(stoich float64) float64

// Values holds one chemistry's parameter set. Built-in sets are copied
// on construction, so overrides never mutate the library.
type Values struct {
	name   string
	vals   map[string]float64
	ocpNeg OCP
	ocpPos OCP
}

func (v *Values) Name() string { return v.name }

func (v *Values) Get(key string) (float64, error) {
	val, ok := v.vals[key]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownParameter, "key %q in set %s", key, v.name)
	}
	return val, nil
}

func (v *Values) Set(key string, val float64) error {
	if _, ok := v.vals[key]; !ok {
		return errors.Wrapf(ErrUnknownParameter, "key %q in set %s", key, v.name)
	}
	if b, ok := bounds[key]; ok {
		if val < b[0] || val > b[1] {
			return errors.Wrapf(ErrParameterBounds, "key %q: %g not in [%g, %g]", key, val, b[0], b[1])
		}
	}
	v.vals[key] = val
	return nil
}

func (v *Values) Update(overrides map[string]float64) error {
	for key, val := range overrides {
		if err := v.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

func (v *Values) Copy() *Values {
	vals := make(map[string]float64, len(v.vals))
	for k, val := range v.vals {
		vals[k] = val
	}
	return &Values{name: v.name, vals: vals, ocpNeg: v.ocpNeg, ocpPos: v.ocpPos}
}

func (v *Values) Keys() []string {
	keys := make([]string, 0, len(v.vals))
	for k := range v.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OCPNeg evaluates the negative electrode open-circuit potential at
// stoichiometry x.
func (v *Values) OCPNeg(x float64) float64 { return v.ocpNeg(x) }

// OCPPos evaluates the positive electrode open-circuit potential at
// stoichiometry y.
func (v *Values) OCPPos(y float64) float64 { return v.ocpPos(y) }

// Getter reads parameters while accumulating the first missing-key
// error, so model constructors can fetch a batch and check once.
type Getter struct {
	v   *Values
	err error
}

func (v *Values) Getter() *Getter { return &Getter{v: v} }

func (g *Getter) Get(key string) float64 {
	val, err := g.v.Get(key)
	if err != nil && g.err == nil {
		g.err = err
	}
	return val
}

func (g *Getter) Err() error { return g.err }

// LoadJSONOverrides reads a flat JSON object of parameter overrides,
// e.g. {"diff_neg": 1.5e-14, "t_amb": 308.15}.
func LoadJSONOverrides(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read overrides file %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Errorf("overrides file %s is not valid json", path)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, errors.Errorf("overrides file %s must contain a json object", path)
	}

	overrides := make(map[string]float64)
	var ferr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			ferr = errors.Errorf("override %q is not a number", key.String())
			return false
		}
		overrides[key.String()] = value.Float()
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	return overrides, nil
}

// LoadYAMLOverrides reads a flat YAML mapping of parameter overrides.
func LoadYAMLOverrides(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read overrides file %s", path)
	}
	overrides := make(map[string]float64)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, errors.Wrapf(err, "could not parse overrides file %s", path)
	}
	return overrides, nil
}
