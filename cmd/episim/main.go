package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/models"
	"github.com/san-kum/episim/internal/stats"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/sweep"
	"github.com/san-kum/episim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	beta       float64
	gamma      float64
	s0         float64
	i0         float64
	r0Init     float64
	integrator string
	configFile string
	preset     string
	// Sweep ranges
	betaLo, betaHi   float64
	gammaLo, gammaHi float64
	gridN            int
	sweepMetric      string
	// Phase plane axes
	xComp string
	yComp string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "compartmental epidemic simulation lab (SI, SIS, SIR)",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot compartment curves of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run trajectory and statistics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

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

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep beta/gamma over a grid and tabulate a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&betaLo, "beta-lo", 0.1, "sweep lower bound for beta")
	sweepCmd.Flags().Float64Var(&betaHi, "beta-hi", 0.9, "sweep upper bound for beta")
	sweepCmd.Flags().Float64Var(&gammaLo, "gamma-lo", 0.05, "sweep lower bound for gamma")
	sweepCmd.Flags().Float64Var(&gammaHi, "gamma-hi", 0.5, "sweep upper bound for gamma")
	sweepCmd.Flags().IntVar(&gridN, "grid", 5, "points per parameter axis")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "peak_infected", "metric to tabulate")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xComp, "x", "S", "compartment for the x-axis")
	phaseCmd.Flags().StringVar(&yComp, "y", "I", "compartment for the y-axis")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive view with live parameter adjustment",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd,
		presetsCmd, compareCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (days)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "horizon (days)")
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "transmission rate")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate (ignored for si)")
	cmd.Flags().Float64Var(&s0, "s0", config.DefaultS0, "initial susceptible fraction")
	cmd.Flags().Float64Var(&i0, "i0", config.DefaultI0, "initial infected fraction")
	cmd.Flags().Float64Var(&r0Init, "r0", 0, "initial recovered fraction (sir)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
}

func buildRequest(model string) (experiment.Request, error) {
	kind, err := models.ParseKind(model)
	if err != nil {
		return experiment.Request{}, err
	}

	initial := []float64{s0, i0}
	if kind == models.SIR {
		initial = append(initial, r0Init)
	}

	return experiment.Request{
		Model:      kind,
		Initial:    initial,
		Beta:       beta,
		Gamma:      gamma,
		Duration:   duration,
		Dt:         dt,
		Integrator: integrator,
	}, nil
}

func applyConfig(cmd *cobra.Command, model string) error {
	if preset != "" {
		cfg := config.GetPreset(model, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		dt = cfg.Dt
		duration = cfg.Duration
		integrator = cfg.Integrator
		beta = cfg.Beta
		gamma = cfg.Gamma
		s0 = cfg.InitState.S
		i0 = cfg.InitState.I
		r0Init = cfg.InitState.R
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// CLI flags override config values.
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("integrator") {
			integrator = cfg.Integrator
		}
		if !cmd.Flags().Changed("beta") {
			beta = cfg.Beta
		}
		if !cmd.Flags().Changed("gamma") {
			gamma = cfg.Gamma
		}
		if !cmd.Flags().Changed("s0") {
			s0 = cfg.InitState.S
		}
		if !cmd.Flags().Changed("i0") {
			i0 = cfg.InitState.I
		}
		if !cmd.Flags().Changed("r0") {
			r0Init = cfg.InitState.R
		}
	}

	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]

	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	req, err := buildRequest(model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", model)
	start := time.Now()

	resp, err := experiment.Simulate(context.Background(), req)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(model, req.Beta, req.Gamma, req.Dt, req.Duration, req.Integrator,
		resp.Model.Compartments(), resp.Trajectory, resp.Stats)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(resp.Trajectory.States))

	for _, w := range resp.Trajectory.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Println("\nstatistics:")
	printRecord(resp.Stats)

	return nil
}

func printRecord(rec *stats.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range rec.Order {
		fmt.Fprintf(w, "  %s\t%s\n", name, rec.Metrics[name])
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tBETA\tGAMMA\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\t%.1fd\t%.3fd\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Beta,
			run.Gamma,
			run.Duration,
			run.Dt,
			run.Integrator,
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

	states, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for idx, name := range meta.Compartments {
		data := make([]float64, len(states))
		for i := range states {
			if idx < len(states[i]) {
				data[i] = states[i][idx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s fraction over %.0f days", name, meta.Duration)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	xAxis, yAxis := -1, -1
	for i, name := range meta.Compartments {
		if name == xComp {
			xAxis = i
		}
		if name == yComp {
			yAxis = i
		}
	}
	if xAxis < 0 || yAxis < 0 {
		return fmt.Errorf("unknown compartment axis (model %s has %v)", meta.Model, meta.Compartments)
	}

	fmt.Printf("phase plane: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xComp, yComp)

	xData := make([]float64, len(states))
	yData := make([]float64, len(states))
	for i := range states {
		xData[i] = states[i][xAxis]
		yData[i] = states[i][yAxis]
	}

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			switch {
			case i < len(xData)/3:
				canvas[py][px] = '.'
			case i < 2*len(xData)/3:
				canvas[py][px] = 'o'
			default:
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌", yMax)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┐")

	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}

	fmt.Printf("  %.2f └", yMin)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┘")

	fmt.Printf("       %.2f", xMin)
	for i := 0; i < width-20; i++ {
		fmt.Print(" ")
	}
	fmt.Printf("%.2f\n", xMax)

	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, meta.Compartments...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	result := &epi.Result{
		Times:  times,
		States: make([]epi.State, len(states)),
	}
	for i, s := range states {
		result.States[i] = s
	}

	return storage.ExportJSONStdout(meta, result, nil)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	model := args[0]
	names := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fd)\n\n", model, dt, duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_I\tDRIFT\tTIME_MS")

	for _, name := range names {
		req, err := buildRequest(model)
		if err != nil {
			return err
		}
		req.Integrator = name

		start := time.Now()
		resp, err := experiment.Simulate(context.Background(), req)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		final := resp.Trajectory.Final()
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.2f\n",
			name, final[1], resp.Trajectory.ConservationDrift,
			float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	model := args[0]

	req, err := buildRequest(model)
	if err != nil {
		return err
	}

	grid := &sweep.Grid{
		Base:   req,
		Betas:  sweep.Range(betaLo, betaHi, gridN),
		Metric: sweepMetric,
	}
	if req.Model != models.SI {
		grid.Gammas = sweep.Range(gammaLo, gammaHi, gridN)
	}

	fmt.Printf("sweeping %s over %d points (%s)\n\n", model, len(grid.Betas)*max(1, len(grid.Gammas)), sweepMetric)

	points := grid.Run(context.Background())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "BETA\tGAMMA\t%s\n", sweepMetric)
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.4f\t%.4f\terror: %v\n", p.Beta, p.Gamma, p.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%s\n", p.Beta, p.Gamma, p.Metric)
	}
	w.Flush()

	if best, ok := sweep.Best(points, true); ok {
		fmt.Printf("\nmax %s: %s at beta=%.4f gamma=%.4f\n", sweepMetric, best.Metric, best.Beta, best.Gamma)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args[0])
	if err != nil {
		return err
	}

	m := viz.NewModel(req)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
