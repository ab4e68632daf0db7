package config

import "sort"

var Presets = map[string]map[string]*Config{
	"spm": {
		"1c": {
			Model: "spm", Solver: "rk4", ParamSet: "chen2020",
			CRate: 1.0, Dt: 1.0, Duration: 4000, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"3c": {
			Model: "spm", Solver: "rk4", ParamSet: "chen2020",
			CRate: 3.0, Dt: 0.5, Duration: 1500, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"gentle": {
			Model: "spm", Solver: "rk4", ParamSet: "chen2020",
			CRate: 0.2, Dt: 5.0, Duration: 19000, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"pulse": {
			Model: "spm", Solver: "rk4", ParamSet: "chen2020",
			CRate: 1.0, Protocol: "pulse", PulseOn: 120, PulseRest: 600,
			Dt: 1.0, Duration: 7200, SOC: 0.8, MinV: 2.5, MaxV: 4.3,
		},
	},
	"spme": {
		"1c": {
			Model: "spme", Solver: "rk4", ParamSet: "chen2020",
			CRate: 1.0, Dt: 1.0, Duration: 4000, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"2c-thermal": {
			Model: "spme", Solver: "rk4", ParamSet: "chen2020",
			CRate: 2.0, Thermal: true, Dt: 0.5, Duration: 2000, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"ripple": {
			Model: "spme", Solver: "rk4", ParamSet: "chen2020",
			CRate: 1.0, Protocol: "sine", SineAmp: 1.0, SineFreq: 0.01,
			Dt: 1.0, Duration: 3600, SOC: 0.9, MinV: 2.5, MaxV: 4.3,
		},
	},
	"dfn": {
		"1c": {
			Model: "dfn", Solver: "rk4", ParamSet: "chen2020",
			CRate: 1.0, Dt: 1.0, Duration: 4000, SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
		"2c-aging": {
			Model: "dfn", Solver: "rk4", ParamSet: "chen2020",
			CRate: 2.0, Thermal: true, SEI: true, Dt: 0.5, Duration: 2000,
			SOC: 1.0, MinV: 2.5, MaxV: 4.3,
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Solver == "" {
		out.Solver = DefaultSolver
	}
	if out.ParamSet == "" {
		out.ParamSet = DefaultSet
	}
	return &out
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
