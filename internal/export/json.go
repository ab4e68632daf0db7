package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cellsim/internal/cell"
)

type SolutionData struct {
	Model        string             `json:"model"`
	Solver       string             `json:"solver"`
	ParamSet     string             `json:"param_set"`
	Protocol     string             `json:"protocol"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Steps        int                `json:"steps"`
	Termination  string             `json:"termination"`
	Times        []float64          `json:"times"`
	Voltages     []float64          `json:"voltages"`
	Currents     []float64          `json:"currents"`
	Temperatures []float64          `json:"temperatures"`
	States       [][]float64        `json:"states"`
	Metrics      map[string]float64 `json:"metrics"`
}

func solutionData(model, solver, paramSet, proto string, dt, duration float64, sol *cell.Solution) SolutionData {
	data := SolutionData{
		Model:        model,
		Solver:       solver,
		ParamSet:     paramSet,
		Protocol:     proto,
		Dt:           dt,
		Duration:     duration,
		Steps:        len(sol.Times),
		Termination:  sol.Termination,
		Times:        sol.Times,
		Voltages:     sol.Voltages,
		Currents:     sol.Currents,
		Temperatures: sol.Temperatures,
		States:       make([][]float64, len(sol.States)),
		Metrics:      sol.Metrics,
	}
	for i, s := range sol.States {
		data.States[i] = s
	}
	return data
}

func WriteJSON(w io.Writer, model, solver, paramSet, proto string, dt, duration float64, sol *cell.Solution) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(solutionData(model, solver, paramSet, proto, dt, duration, sol))
}

func JSONFile(path, model, solver, paramSet, proto string, dt, duration float64, sol *cell.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, model, solver, paramSet, proto, dt, duration, sol)
}
