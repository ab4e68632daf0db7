package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/analysis"
	"github.com/san-kum/cellsim/internal/cell"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/export"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/optim"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	soc        float64
	current    float64
	crate      float64
	solverName string
	setName    string
	thermal    bool
	sei        bool
	minV       float64
	maxV       float64
	adaptive   bool
	tolerance  float64
	// Parameter overrides
	overrideFile string
	setFlags     []string
	// Config file and presets
	configFile string
	preset     string
	// Protocol selection
	protoName string
	pulseOn   float64
	pulseRest float64
	sineAmp   float64
	sineFreq  float64
	// Sweep range (C-rates)
	sweepFrom float64
	sweepTo   float64
	sweepStep float64
	// Live view frame rate
	frameRate int
	// SVG output path
	svgOut  string
	jsonOut string
	plotVar string
	// Fit options
	fitParam string
	fitMin   float64
	fitMax   float64
	fitSteps int
	fitAh    float64
)

// main is the entry point for the cellsim CLI; it registers commands
// and flags and executes the root command. It exits the process with
// status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "cellsim",
		Short: "lithium-ion cell simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cellsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "solve a model over a time horizon",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSolveFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep the applied C-rate and compare discharge curves",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSolveFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.5, "first C-rate")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2.0, "last C-rate")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.5, "C-rate step")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [solver1] [solver2] ...",
		Short: "compare solvers on the same model",
		Args:  cobra.MinimumNArgs(3),
		RunE:  compareSolvers,
	}
	addSolveFlags(compareCmd)

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models, solvers and parameter sets",
		RunE:  listCatalog,
	}

	submodelsCmd := &cobra.Command{
		Use:   "submodels [model]",
		Short: "inspect submodel composition",
		Args:  cobra.ExactArgs(1),
		RunE:  showSubmodels,
	}
	submodelsCmd.Flags().StringVar(&setName, "params", config.DefaultSet, "parameter set")
	submodelsCmd.Flags().BoolVar(&thermal, "thermal", false, "include lumped thermal submodel")
	submodelsCmd.Flags().BoolVar(&sei, "sei", false, "include sei growth submodel")

	paramsCmd := &cobra.Command{
		Use:   "params [set]",
		Short: "show a parameter set",
		Args:  cobra.ExactArgs(1),
		RunE:  showParams,
	}
	paramsCmd.Flags().StringVar(&overrideFile, "overrides", "", "overrides file (json or yaml)")
	paramsCmd.Flags().StringArrayVar(&setFlags, "set", nil, "override single values, key=value")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotVar, "var", "", "plot one variable: voltage, current, temperature, or a state column xN")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "discharge curve analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&jsonOut, "out", "", "write to a file instead of stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to csv on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the discharge curve as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "discharge.svg", "output file")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "solve with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSolveFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	fitCmd := &cobra.Command{
		Use:   "fit [model]",
		Short: "grid-search one parameter against a capacity target",
		Args:  cobra.ExactArgs(1),
		RunE:  runFit,
	}
	addSolveFlags(fitCmd)
	fitCmd.Flags().StringVar(&fitParam, "param", "diff_neg", "parameter to fit")
	fitCmd.Flags().Float64Var(&fitMin, "min", 0, "grid start")
	fitCmd.Flags().Float64Var(&fitMax, "max", 0, "grid end")
	fitCmd.Flags().IntVar(&fitSteps, "steps", 5, "grid points")
	fitCmd.Flags().Float64Var(&fitAh, "target-ah", 0, "capacity target, Ah")

	rootCmd.AddCommand(runCmd, sweepCmd, compareCmd, modelsCmd, submodelsCmd,
		paramsCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportCmd,
		exportCSVCmd, exportSVGCmd, liveCmd, fitCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep, s")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time horizon, s")
	cmd.Flags().Float64Var(&soc, "soc", config.DefaultSOC, "initial state of charge")
	cmd.Flags().Float64Var(&current, "current", 0, "applied current, A (positive = discharge)")
	cmd.Flags().Float64Var(&crate, "c-rate", 1.0, "applied C-rate (used when --current is 0)")
	cmd.Flags().StringVar(&solverName, "solver", config.DefaultSolver, "solver")
	cmd.Flags().StringVar(&setName, "params", config.DefaultSet, "parameter set")
	cmd.Flags().BoolVar(&thermal, "thermal", false, "include lumped thermal submodel")
	cmd.Flags().BoolVar(&sei, "sei", false, "include sei growth submodel")
	cmd.Flags().Float64Var(&minV, "min-voltage", 2.5, "lower voltage cutoff, V (0 disables)")
	cmd.Flags().Float64Var(&maxV, "max-voltage", 4.3, "upper voltage cutoff, V (0 disables)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive timestep")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-6, "adaptive tolerance")
	cmd.Flags().StringVar(&overrideFile, "overrides", "", "parameter overrides file (json or yaml)")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "override single parameters, key=value")
	cmd.Flags().StringVar(&protoName, "protocol", "constant", "protocol: constant, pulse, sine")
	cmd.Flags().Float64Var(&pulseOn, "pulse-on", 120, "pulse on-time, s")
	cmd.Flags().Float64Var(&pulseRest, "pulse-rest", 600, "pulse rest, s")
	cmd.Flags().Float64Var(&sineAmp, "sine-amp", 0, "sine ripple amplitude, A")
	cmd.Flags().Float64Var(&sineFreq, "sine-freq", 0.01, "sine ripple frequency, Hz")
}

// collectOverrides merges an overrides file with --set key=value flags;
// flags win.
func collectOverrides() (map[string]float64, error) {
	overrides := make(map[string]float64)

	if overrideFile != "" {
		var fileOverrides map[string]float64
		var err error
		switch filepath.Ext(overrideFile) {
		case ".json":
			fileOverrides, err = params.LoadJSONOverrides(overrideFile)
		default:
			fileOverrides, err = params.LoadYAMLOverrides(overrideFile)
		}
		if err != nil {
			return nil, err
		}
		for k, v := range fileOverrides {
			overrides[k] = v
		}
	}

	for _, kv := range setFlags {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		val, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set value %q: %w", kv, err)
		}
		overrides[parts[0]] = val
	}

	if len(overrides) == 0 {
		return nil, nil
	}
	return overrides, nil
}

// flagConfig assembles the file/flag configuration for solve-style
// commands: preset first, then config file, then flags.
func flagConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		cfg.Model = model
	}

	flagged := func(name string) bool { return cmd.Flags().Changed(name) }
	if flagged("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if flagged("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if flagged("soc") {
		cfg.SOC = soc
	}
	if flagged("current") {
		cfg.Current = current
	}
	if flagged("c-rate") || (cfg.Current == 0 && cfg.CRate == 0) {
		cfg.CRate = crate
	}
	if flagged("solver") || cfg.Solver == "" {
		cfg.Solver = solverName
	}
	if flagged("params") || cfg.ParamSet == "" {
		cfg.ParamSet = setName
	}
	if flagged("thermal") {
		cfg.Thermal = thermal
	}
	if flagged("sei") {
		cfg.SEI = sei
	}
	if flagged("min-voltage") {
		cfg.MinV = minV
	}
	if flagged("max-voltage") {
		cfg.MaxV = maxV
	}
	if flagged("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flagged("tol") {
		cfg.Tolerance = tolerance
	}
	if flagged("protocol") {
		cfg.Protocol = protoName
	}
	if flagged("pulse-on") {
		cfg.PulseOn = pulseOn
	}
	if flagged("pulse-rest") {
		cfg.PulseRest = pulseRest
	}
	if flagged("sine-amp") {
		cfg.SineAmp = sineAmp
	}
	if flagged("sine-freq") {
		cfg.SineFreq = sineFreq
	}

	overrides, err := collectOverrides()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		if cfg.Overrides == nil {
			cfg.Overrides = make(map[string]float64)
		}
		for k, v := range overrides {
			cfg.Overrides[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveAmps(cfg *config.Config) (float64, error) {
	p, err := params.Load(cfg.ParamSet)
	if err != nil {
		return 0, err
	}
	capacity, err := p.Get("capacity_ah")
	if err != nil {
		return 0, err
	}
	return cfg.Amps(capacity), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := flagConfig(cmd, args[0])
	if err != nil {
		return err
	}
	amps, err := resolveAmps(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.Build(cfg.Experiment(amps))
	if err != nil {
		return err
	}

	fmt.Printf("solving %s (%s, %.3f A)...\n", cfg.Model, cfg.ParamSet, amps)
	start := time.Now()

	sol, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Model:    cfg.Model,
		Solver:   cfg.Solver,
		ParamSet: cfg.ParamSet,
		Protocol: cfg.Protocol,
		Current:  amps,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}, sol)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", sol.StepsTaken)
	fmt.Printf("termination: %s\n", sol.Termination)
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range sol.Metrics {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := flagConfig(cmd, args[0])
	if err != nil {
		return err
	}

	p, err := params.Load(cfg.ParamSet)
	if err != nil {
		return err
	}
	capacity, err := p.Get("capacity_ah")
	if err != nil {
		return err
	}

	rates, err := sim.Range(sweepFrom, sweepTo, sweepStep)
	if err != nil {
		return err
	}
	currents := make([]float64, len(rates))
	for i, r := range rates {
		currents[i] = r * capacity
	}

	sweep := sim.NewSweep(currents, func(amps float64) (*sim.Simulation, error) {
		exp, err := experiment.Build(cfg.Experiment(amps))
		if err != nil {
			return nil, err
		}
		return exp.Simulation(), nil
	})

	fmt.Printf("sweeping %s: %d C-rates from %.2fC to %.2fC\n", cfg.Model, len(rates), sweepFrom, sweepTo)
	start := time.Now()
	sols, err := sweep.Run(context.Background(), cfg.Experiment(0).Solve)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	series := make([][]float64, len(sols))
	labels := make([]string, len(sols))
	for i, sol := range sols {
		series[i] = sol.Voltages
		labels[i] = fmt.Sprintf("%.2fC", rates[i])
	}
	fmt.Println(viz.Overlay(series, labels, "terminal voltage vs step"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "C-RATE\tCURRENT\tCAPACITY\tENERGY\tMIN V\tTERMINATION")
	for i, sol := range sols {
		fmt.Fprintf(w, "%.2fC\t%.3f A\t%.4f Ah\t%.4f Wh\t%.4f V\t%s\n",
			rates[i],
			currents[i],
			sol.Metrics["capacity_ah"],
			sol.Metrics["energy_wh"],
			sol.Metrics["min_voltage"],
			sol.Termination,
		)
	}
	return w.Flush()
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := flagConfig(cmd, args[0])
	if err != nil {
		return err
	}
	amps, err := resolveAmps(cfg)
	if err != nil {
		return err
	}

	solverNames := args[1:]
	sols := make([]*cell.Solution, len(solverNames))
	elapsed := make([]time.Duration, len(solverNames))

	for i, name := range solverNames {
		runCfg := *cfg
		runCfg.Solver = name
		if err := runCfg.Validate(); err != nil {
			return err
		}

		exp, err := experiment.Build(runCfg.Experiment(amps))
		if err != nil {
			return err
		}

		start := time.Now()
		sols[i], err = exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed[i] = time.Since(start)
	}

	series := make([][]float64, len(sols))
	for i, sol := range sols {
		series[i] = sol.Voltages
	}
	fmt.Println(viz.Overlay(series, solverNames, "terminal voltage vs step"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tSTEPS\tTIME\tMAX |ΔV| VS "+strings.ToUpper(solverNames[0]))
	for i, sol := range sols {
		diff := 0.0
		if i > 0 {
			diff = analysis.VoltageError(sol, sols[0])
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.6f V\n", solverNames[i], sol.StepsTaken, elapsed[i], diff)
	}
	return w.Flush()
}

func listCatalog(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	fmt.Println("models:")
	for _, name := range reg.ListModels() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("solvers:")
	for _, name := range reg.ListSolvers() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("parameter sets:")
	for _, name := range params.List() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func showSubmodels(cmd *cobra.Command, args []string) error {
	p, err := params.Load(setName)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	m, err := reg.GetModel(args[0], p, models.Options{Thermal: thermal, SEI: sei})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d state variables\n\n", m.Name(), m.StateDim())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMODEL\tSTATE SLICE\tNOTE")
	for _, sub := range m.Submodels() {
		fmt.Fprintf(w, "%s\t[%d:%d]\t%s\n", sub.Name, sub.Offset, sub.Offset+sub.Len, sub.Note)
	}
	return w.Flush()
}

func showParams(cmd *cobra.Command, args []string) error {
	p, err := params.Load(args[0])
	if err != nil {
		return err
	}

	overrides, err := collectOverrides()
	if err != nil {
		return err
	}
	if err := p.Update(overrides); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	fmt.Printf("parameter set: %s\n\n", p.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range p.Keys() {
		val, _ := p.Get(key)
		fmt.Fprintf(w, "%s\t%g\n", key, val)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSOLVER\tPARAMS\tCURRENT\tTIME\tTERMINATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3f A\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Solver,
			run.ParamSet,
			run.Current,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Termination,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.ParamSet)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	if plotVar != "" {
		data, err := series.Column(plotVar)
		if err != nil {
			return err
		}
		fmt.Println(viz.Series(data, plotVar))
		return nil
	}

	fmt.Println(viz.Series(series.Voltages, "terminal voltage (V)"))
	fmt.Println()
	fmt.Println(viz.Series(series.Currents, "applied current (A)"))
	fmt.Println()

	if varies(series.Temperatures) {
		fmt.Println(viz.Series(series.Temperatures, "cell temperature (K)"))
		fmt.Println()
	}

	return nil
}

func varies(data []float64) bool {
	for i := 1; i < len(data); i++ {
		if data[i] != data[0] {
			return true
		}
	}
	return false
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data")
	}

	sol := &cell.Solution{
		Times:    series.Times,
		Voltages: series.Voltages,
		Currents: series.Currents,
	}

	fmt.Printf("discharge analysis: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n\n", meta.Model, meta.ParamSet)
	fmt.Printf("delivered capacity: %.4f Ah\n", analysis.Capacity(sol))
	fmt.Printf("average voltage: %.4f V\n\n", analysis.AverageVoltage(sol))

	window := len(sol.Times) / 80
	if window < 1 {
		window = 1
	}
	_, dvdq := analysis.DVDQ(sol, window)
	if len(dvdq) >= 2 {
		fmt.Println(viz.Series(dvdq, "differential voltage dV/dQ (V/Ah)"))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	sol := &cell.Solution{
		Times:        series.Times,
		Voltages:     series.Voltages,
		Currents:     series.Currents,
		Temperatures: series.Temperatures,
		Metrics:      meta.Metrics,
		Termination:  meta.Termination,
	}
	for _, s := range series.States {
		sol.States = append(sol.States, cell.State(s))
	}

	if jsonOut != "" {
		return export.JSONFile(jsonOut, meta.Model, meta.Solver, meta.ParamSet, meta.Protocol, meta.Dt, meta.Duration, sol)
	}
	return export.WriteJSON(os.Stdout, meta.Model, meta.Solver, meta.ParamSet, meta.Protocol, meta.Dt, meta.Duration, sol)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "voltage", "current", "temperature"}
	if len(series.States) > 0 {
		for i := range series.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 4, 64),
			strconv.FormatFloat(series.Voltages[i], 'f', 6, 64),
			strconv.FormatFloat(series.Currents[i], 'f', 6, 64),
			strconv.FormatFloat(series.Temperatures[i], 'f', 4, 64),
		}
		for _, val := range series.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to export")
	}

	svg := export.CurveToSVG(series.Times, series.Voltages, 800, 480, "#00ccff", "time (s)", "voltage (V)")
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := flagConfig(cmd, args[0])
	if err != nil {
		return err
	}
	amps, err := resolveAmps(cfg)
	if err != nil {
		return err
	}

	exp, err := experiment.Build(cfg.Experiment(amps))
	if err != nil {
		return err
	}
	simulation := exp.Simulation()

	reg := experiment.NewRegistry()
	solver, err := reg.GetSolver(cfg.Solver)
	if err != nil {
		return err
	}
	proto, err := reg.GetProtocol(cfg.Experiment(amps))
	if err != nil {
		return err
	}

	return viz.RunLive(simulation.Model(), solver, proto, cfg.Experiment(amps).Solve, frameRate)
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := flagConfig(cmd, args[0])
	if err != nil {
		return err
	}
	amps, err := resolveAmps(cfg)
	if err != nil {
		return err
	}

	if fitSteps < 2 || fitMax <= fitMin {
		return fmt.Errorf("fit needs --min < --max and --steps >= 2")
	}
	if fitAh <= 0 {
		return fmt.Errorf("fit needs a positive --target-ah")
	}

	grid := make([]float64, fitSteps)
	for i := range grid {
		grid[i] = fitMin + float64(i)*(fitMax-fitMin)/float64(fitSteps-1)
	}

	search := optim.NewGridSearch([]string{fitParam}, [][]float64{grid})

	fmt.Printf("fitting %s over [%g, %g] (%d points) to %.3f Ah\n", fitParam, fitMin, fitMax, fitSteps, fitAh)
	best, score, err := search.Search(context.Background(), cfg.Experiment(amps), optim.CapacityTarget(fitAh))
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no grid point produced a valid run")
	}

	fmt.Printf("best %s = %g (|capacity - target| = %.4f Ah)\n", fitParam, best[fitParam], score)
	return nil
}
