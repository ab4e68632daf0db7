package optim

import (
	"context"
	"math"

	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/experiment"
)

// GridSearch sweeps parameter overrides over fixed grids and keeps the
// combination with the lowest objective, e.g. fitting a diffusivity to
// a capacity target.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Objective scores a solved run; lower is better.
type Objective func(sol *cell.Solution) float64

// CapacityTarget scores the absolute distance of delivered capacity
// from target Ah.
func CapacityTarget(targetAh float64) Objective {
	return func(sol *cell.Solution) float64 {
		return math.Abs(sol.Metrics["capacity_ah"] - targetAh)
	}
}

func (g *GridSearch) Search(ctx context.Context, base experiment.Config, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base experiment.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) {
	if depth == len(g.paramNames) {
		cfg := base
		cfg.Overrides = make(map[string]float64, len(base.Overrides)+len(current))
		for k, v := range base.Overrides {
			cfg.Overrides[k] = v
		}
		for k, v := range current {
			cfg.Overrides[k] = v
		}

		exp, err := experiment.Build(cfg)
		if err != nil {
			return
		}
		sol, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val := objective(sol)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, objective, best, bestParams)
	}
}
