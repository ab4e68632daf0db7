package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/params"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "spm" {
		t.Errorf("expected model spm, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "p4d"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown model")
	}

	cfg = DefaultConfig()
	cfg.Solver = "leapfrog"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown solver")
	}

	cfg = DefaultConfig()
	cfg.SOC = 1.2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for soc above 1")
	}

	cfg = DefaultConfig()
	cfg.Protocol = "staircase"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown protocol")
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "spme"
	cfg.CRate = 2.0
	cfg.Current = 0
	cfg.Thermal = true
	cfg.Overrides = map[string]float64{"t_amb": 308.15}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "spme" || loaded.CRate != 2.0 || !loaded.Thermal {
		t.Errorf("roundtrip lost fields: %+v", loaded)
	}
	if loaded.Overrides["t_amb"] != 308.15 {
		t.Errorf("roundtrip lost overrides: %v", loaded.Overrides)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: warp-drive\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for unknown model")
	}
}

func TestAmps(t *testing.T) {
	cfg := &Config{Current: 3.0, CRate: 2.0}
	if got := cfg.Amps(5.0); got != 3.0 {
		t.Errorf("explicit current should win, got %f", got)
	}

	cfg = &Config{CRate: 2.0}
	if got := cfg.Amps(5.0); got != 10.0 {
		t.Errorf("expected 10 A for 2C on 5 Ah, got %f", got)
	}
}

func TestExperimentMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "dfn"
	cfg.Thermal = true
	cfg.SEI = true
	cfg.MinV = 2.7

	ec := cfg.Experiment(7.5)
	if ec.Model != "dfn" || ec.Current != 7.5 {
		t.Errorf("mapping lost model or current: %+v", ec)
	}
	if !ec.Options.Thermal || !ec.Options.SEI {
		t.Error("mapping lost submodel options")
	}
	if ec.Solve.MinVoltage != 2.7 {
		t.Errorf("mapping lost cutoff: %f", ec.Solve.MinVoltage)
	}
	if !ec.Solve.ValidateState {
		t.Error("state validation should be on")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("spm", "1c")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.CRate != 1.0 {
		t.Errorf("expected 1C, got %f", cfg.CRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	// Presets hand out copies.
	cfg.CRate = 99
	again := GetPreset("spm", "1c")
	if again.CRate != 1.0 {
		t.Error("preset mutated by caller")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("spm", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "1c") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	for _, model := range []string{"spm", "spme", "dfn"} {
		presets := ListPresets(model)
		if len(presets) == 0 {
			t.Errorf("expected presets for %s", model)
		}
		for _, name := range presets {
			p := GetPreset(model, name)
			if p == nil {
				t.Errorf("listed preset %s/%s not loadable", model, name)
				continue
			}
			if err := p.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", model, name, err)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresetRunsToCutoff(t *testing.T) {
	// The electrolyte models ship with a one second recording stride;
	// the solve must still reach a clean voltage or time termination.
	for _, tc := range []struct{ model, preset string }{
		{"spme", "1c"},
		{"dfn", "1c"},
	} {
		cfg := GetPreset(tc.model, tc.preset)
		if cfg == nil {
			t.Fatalf("preset %s/%s missing", tc.model, tc.preset)
		}

		p, err := params.Load(cfg.ParamSet)
		if err != nil {
			t.Fatalf("load %s: %v", cfg.ParamSet, err)
		}
		capacity := p.Getter().Get("capacity_ah")

		exp, err := experiment.Build(cfg.Experiment(cfg.Amps(capacity)))
		if err != nil {
			t.Fatalf("build %s/%s: %v", tc.model, tc.preset, err)
		}

		sol, err := exp.Run(context.Background())
		if err != nil {
			t.Fatalf("run %s/%s: %v", tc.model, tc.preset, err)
		}
		if sol.Termination == cell.TermError {
			t.Errorf("%s/%s terminated with errors: %v", tc.model, tc.preset, sol.Errors)
		}
		if !sol.Final().IsValid() {
			t.Errorf("%s/%s final state invalid", tc.model, tc.preset)
		}
	}
}
