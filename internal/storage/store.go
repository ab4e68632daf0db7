package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/cellsim/internal/cell"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Solver      string             `json:"solver"`
	ParamSet    string             `json:"param_set"`
	Protocol    string             `json:"protocol"`
	Current     float64            `json:"current"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Termination string             `json:"termination"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Series is the tabular part of a stored run.
type Series struct {
	Times        []float64
	Voltages     []float64
	Currents     []float64
	Temperatures []float64
	States       [][]float64
}

// Column returns one plottable variable by name: voltage, current,
// temperature, time, or a state column like "x12".
func (s *Series) Column(name string) ([]float64, error) {
	switch name {
	case "voltage":
		return s.Voltages, nil
	case "current":
		return s.Currents, nil
	case "temperature":
		return s.Temperatures, nil
	case "time":
		return s.Times, nil
	}
	if strings.HasPrefix(name, "x") {
		idx, err := strconv.Atoi(name[1:])
		if err == nil {
			if len(s.States) == 0 || idx < 0 || idx >= len(s.States[0]) {
				return nil, errors.Errorf("state column %s out of range", name)
			}
			col := make([]float64, len(s.States))
			for i := range s.States {
				col[i] = s.States[i][idx]
			}
			return col, nil
		}
	}
	return nil, errors.Errorf("unknown variable %q (want voltage, current, temperature, time, or xN)", name)
}

func (s *Store) Save(meta RunMetadata, sol *cell.Solution) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Termination = sol.Termination
	meta.Metrics = sol.Metrics

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "series.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(sol.Times) == 0 {
		return runID, nil
	}

	header := []string{"time", "voltage", "current", "temperature"}
	for i := range sol.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range sol.Times {
		row := []string{
			strconv.FormatFloat(sol.Times[i], 'f', 4, 64),
			strconv.FormatFloat(sol.Voltages[i], 'f', 6, 64),
			strconv.FormatFloat(sol.Currents[i], 'f', 6, 64),
			strconv.FormatFloat(sol.Temperatures[i], 'f', 4, 64),
		}
		for _, val := range sol.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s not found", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s has corrupt metadata", runID)
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "series.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s has no series data", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, _ := strconv.ParseFloat(record[1], 64)
		amps, _ := strconv.ParseFloat(record[2], 64)
		temp, _ := strconv.ParseFloat(record[3], 64)

		state := make([]float64, 0, len(record)-4)
		for j := 4; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}

		series.Times = append(series.Times, t)
		series.Voltages = append(series.Voltages, v)
		series.Currents = append(series.Currents, amps)
		series.Temperatures = append(series.Temperatures, temp)
		series.States = append(series.States, state)
	}

	return series, nil
}
