package storage

import (
	"testing"

	"github.com/san-kum/cellsim/internal/cell"
)

func sampleSolution() *cell.Solution {
	return &cell.Solution{
		Times:        []float64{0, 1, 2},
		States:       []cell.State{{1.0, 2.0}, {1.1, 2.1}, {1.2, 2.2}},
		Voltages:     []float64{4.0, 3.9, 3.8},
		Currents:     []float64{5.0, 5.0, 5.0},
		Temperatures: []float64{298.15, 298.2, 298.3},
		Metrics:      map[string]float64{"capacity_ah": 0.0028},
		StepsTaken:   2,
		Termination:  cell.TermTime,
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runID, err := store.Save(RunMetadata{
		Model:    "spm",
		Solver:   "rk4",
		ParamSet: "chen2020",
		Protocol: "constant 5.000 A",
		Current:  5.0,
		Dt:       1.0,
		Duration: 2.0,
	}, sampleSolution())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Model != "spm" || meta.Solver != "rk4" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Termination != cell.TermTime {
		t.Errorf("termination not recorded: %q", meta.Termination)
	}
	if meta.Metrics["capacity_ah"] != 0.0028 {
		t.Errorf("metrics not recorded: %v", meta.Metrics)
	}

	series, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(series.Times) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(series.Times))
	}
	if series.Voltages[1] != 3.9 {
		t.Errorf("voltage mismatch: %v", series.Voltages)
	}
	if len(series.States[0]) != 2 {
		t.Errorf("state width mismatch: %v", series.States[0])
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		runID, err := store.Save(RunMetadata{Model: "spm"}, sampleSolution())
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if seen[runID] {
			t.Fatalf("duplicate run id %s", runID)
		}
		seen[runID] = true
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Save(RunMetadata{Model: "spme"}, sampleSolution()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestList_MissingBaseDir(t *testing.T) {
	store := New("/nonexistent/cellsim-test")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List should tolerate a missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoad_Unknown(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("spm_deadbeef"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := store.LoadSeries("spm_deadbeef"); err == nil {
		t.Error("expected error for unknown run series")
	}
}

func TestSeriesColumn(t *testing.T) {
	series := &Series{
		Times:        []float64{0, 1, 2},
		Voltages:     []float64{4.0, 3.9, 3.8},
		Currents:     []float64{5.0, 5.0, 5.0},
		Temperatures: []float64{298.15, 298.2, 298.3},
		States:       [][]float64{{1.0, 2.0}, {1.1, 2.1}, {1.2, 2.2}},
	}

	v, err := series.Column("voltage")
	if err != nil || v[1] != 3.9 {
		t.Errorf("voltage column: %v, %v", v, err)
	}
	tm, err := series.Column("temperature")
	if err != nil || tm[2] != 298.3 {
		t.Errorf("temperature column: %v, %v", tm, err)
	}

	x1, err := series.Column("x1")
	if err != nil {
		t.Fatalf("state column: %v", err)
	}
	for i, want := range []float64{2.0, 2.1, 2.2} {
		if x1[i] != want {
			t.Errorf("x1[%d] = %f, want %f", i, x1[i], want)
		}
	}

	if _, err := series.Column("x9"); err == nil {
		t.Error("expected error for out of range state column")
	}
	if _, err := series.Column("entropy"); err == nil {
		t.Error("expected error for unknown variable")
	}
}
