// Package analysis provides post-processing of solved discharge
// curves: delivered capacity, average voltage, differential voltage
// (dV/dQ) and solver-accuracy comparison between two solutions.
package analysis
