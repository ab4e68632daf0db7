package solvers

import "github.com/san-kum/cellsim/internal/cell"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m cell.Model, x cell.State, current, t, dt float64) cell.State {
	dx := m.Derivative(x, current, t)
	result := make(cell.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
