package analysis

import "github.com/san-kum/cellsim/internal/cell"

// Capacity integrates the applied current over the solution, in Ah.
func Capacity(sol *cell.Solution) float64 {
	coulomb := 0.0
	for i := 1; i < len(sol.Times); i++ {
		dt := sol.Times[i] - sol.Times[i-1]
		coulomb += sol.Currents[i] * dt
	}
	return coulomb / 3600.0
}

// AverageVoltage is the capacity-weighted mean terminal voltage.
func AverageVoltage(sol *cell.Solution) float64 {
	coulomb := 0.0
	weighted := 0.0
	for i := 1; i < len(sol.Times); i++ {
		dq := sol.Currents[i] * (sol.Times[i] - sol.Times[i-1])
		coulomb += dq
		weighted += sol.Voltages[i] * dq
	}
	if coulomb == 0 {
		return 0
	}
	return weighted / coulomb
}

// DVDQ computes the differential voltage curve dV/dQ against
// discharged capacity, smoothed over a fixed window. Both slices have
// the same length.
func DVDQ(sol *cell.Solution, window int) (capacityAh, dvdq []float64) {
	n := len(sol.Times)
	if n < 2 {
		return nil, nil
	}
	if window < 1 {
		window = 1
	}

	q := make([]float64, n)
	for i := 1; i < n; i++ {
		q[i] = q[i-1] + sol.Currents[i]*(sol.Times[i]-sol.Times[i-1])/3600.0
	}

	capacityAh = make([]float64, 0, n)
	dvdq = make([]float64, 0, n)
	for i := window; i < n; i += window {
		dq := q[i] - q[i-window]
		if dq == 0 {
			continue
		}
		dv := sol.Voltages[i] - sol.Voltages[i-window]
		capacityAh = append(capacityAh, q[i])
		dvdq = append(dvdq, dv/dq)
	}
	return capacityAh, dvdq
}

// VoltageError is the largest absolute terminal-voltage difference
// between two solutions over their shared time span, compared at the
// sample times of a. Solution b is linearly interpolated.
func VoltageError(a, b *cell.Solution) float64 {
	if len(a.Times) == 0 || len(b.Times) == 0 {
		return 0
	}

	maxErr := 0.0
	j := 0
	for i, t := range a.Times {
		if t > b.Times[len(b.Times)-1] {
			break
		}
		for j < len(b.Times)-1 && b.Times[j+1] < t {
			j++
		}
		vb := b.Voltages[j]
		if j < len(b.Times)-1 && b.Times[j+1] > b.Times[j] {
			frac := (t - b.Times[j]) / (b.Times[j+1] - b.Times[j])
			if frac >= 0 && frac <= 1 {
				vb = b.Voltages[j] + frac*(b.Voltages[j+1]-b.Voltages[j])
			}
		}
		diff := a.Voltages[i] - vb
		if diff < 0 {
			diff = -diff
		}
		if diff > maxErr {
			maxErr = diff
		}
	}
	return maxErr
}
