// Package cell provides core primitives for lithium-ion cell simulation.
//
// The package defines the fundamental interfaces and types for numerical
// solution of cell models expressed as ordinary differential equations
// (dX/dt = f(X, I, t), with applied current I):
//
//   - [State]: vector representing cell state (concentrations, temperature)
//   - [Model]: interface for cell models (SPM, SPMe, DFN)
//   - [Solver]: numerical time-stepping interface
//   - [Protocol]: applied-current program
//   - [Solution]: recorded trajectory with outputs and metrics
//
// # Example
//
//	m, _ := models.NewSPM(p, models.Options{})
//	sol, _ := sim.New(m, solvers.NewRK4(), proto).Run(ctx, cfg)
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. For parameter sweeps, use
// the sim package's Sweep type which runs independent simulations.
package cell
