package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/rodsim/internal/analysis"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/export"
	"github.com/san-kum/rodsim/internal/integrators"
	"github.com/san-kum/rodsim/internal/sim"
	"github.com/san-kum/rodsim/internal/storage"
	"github.com/san-kum/rodsim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	integrator string
	backend    string
	workers    int
	elements   int
	noSave     bool
	// plot
	fields []string
	// export
	outFile string
	svgFile string
	// init
	presetName string
)

// main registers the rodsim commands. Without a subcommand it opens the
// preset menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rodsim",
		Short: "rod on plane contact and friction lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rodsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&fields, "fields", []string{"x", "z", "speed", "energy"},
		"series to plot ("+strings.Join(viz.SeriesFields(), ", ")+")")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "gait and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "also write a side view of the final rod as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&presetName, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd, initCmd, compareCommand())
	rootCmd.AddCommand(sweepCommand(), scenarioCommand(), monteCarloCommand(), benchCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "verlet", "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().StringVar(&backend, "backend", config.BackendSerial, "batch backend (serial, parallel)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel backend workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&elements, "elements", config.DefaultElements, "rod elements")
}

// resolveConfig picks the preset (or the config file, which wins), then
// applies only the flags the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if flags.Changed("backend") {
		cfg.Sim.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Sim.Workers = workers
	}
	if flags.Changed("elements") {
		cfg.Rod.Elements = elements
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s (%d elements, %s, dt=%g)...\n", cfg.Name, cfg.Rod.Elements, cfg.Sim.Integrator, cfg.Sim.Dt)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, elapsed)
	fmt.Println(viz.Summary("metrics", result.Metrics))

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		return viz.RunMenu()
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	return viz.RunLive(exp)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tINTEG\tELEMS\tTRAVEL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%gs\t%s\t%d\t%.4f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Elements,
			run.Metrics["travel"],
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
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, field := range fields {
		data, err := viz.Series(samples, field)
		if err != nil {
			return err
		}
		fmt.Println(viz.PlotSeries(data, field+" vs time", 80, 10))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(samples) < 3 {
		return fmt.Errorf("not enough samples to analyze (%d)", len(samples))
	}

	axis := r3.Unit(cfg.Rod.Direction.R3())
	fmt.Printf("gait analysis: %s\n", meta.ID)
	fmt.Printf("axis: (%.3f, %.3f, %.3f)\n\n", axis.X, axis.Y, axis.Z)

	g := analysis.AnalyzeGait(samples, axis)
	fmt.Printf("speed:     %.5f m/s\n", g.Speed)
	if g.Frequency > 0 {
		fmt.Printf("frequency: %.3f hz\n", g.Frequency)
		fmt.Printf("period:    %.3f s\n", 1/g.Frequency)
		fmt.Printf("stride:    %.5f m over %d cycles\n", g.Stride, g.Cycles)
	} else {
		fmt.Println("frequency: none (no periodic motion)")
	}

	axial := make([]float64, len(samples))
	pos := make([]float64, len(samples))
	for i, s := range samples {
		axial[i] = r3.Dot(s.Velocity, axis)
		pos[i] = r3.Dot(s.CenterOfMass, axis)
	}

	spec := analysis.PowerSpectrum(axial, samples[1].Time-samples[0].Time)
	if len(spec.Power) > 1 {
		fmt.Println()
		fmt.Println(viz.PlotSeries(spec.Power[1:], "axial velocity spectrum", 80, 8))
	}

	portrait := analysis.NewPhasePortrait(samples,
		func(s sim.Sample) float64 { return r3.Dot(s.CenterOfMass, axis) },
		func(s sim.Sample) float64 { return r3.Dot(s.Velocity, axis) },
	)
	fmt.Println("\naxial phase portrait (position vs velocity):")
	fmt.Print(portrait.ASCII(72, 16))
	fmt.Printf("  position [%.4f, %.4f]\n", floats.Min(pos), floats.Max(pos))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := st.Export(runID, w); err != nil {
		return err
	}

	if svgFile == "" {
		return nil
	}
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	nodes, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}
	plane, err := cfg.BuildPlane()
	if err != nil {
		return err
	}

	frame := viz.NewFrame(plane, cfg.Rod.Direction.R3())
	points := make([]export.Point, len(nodes))
	for i, p := range nodes {
		u, _, h := frame.Coords(p)
		points[i] = export.Point{X: u, Y: h}
	}
	if err := os.WriteFile(svgFile, []byte(export.PathToSVG(points, 800, 400, "#00d4ff")), 0644); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Printf("exported %s to %s and %s\n", runID, outFile, svgFile)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDURATION\tINTEG\tNORMAL")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		n := cfg.Plane.Normal
		fmt.Fprintf(w, "%s\t%.1fs\t%s\t(%.3f, %.3f, %.3f)\n", name, cfg.Sim.Duration, cfg.Sim.Integrator, n[0], n[1], n[2])
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same preset",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration (default from preset)")
	return cmd
}

// compareIntegrators runs one copy of the preset per integrator
// concurrently.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := compareBase(cmd, args[0])
	if err != nil {
		return err
	}

	names := args[1:]
	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		cfg := base.Clone()
		cfg.Name = name
		cfg.Sim.Integrator = name
		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		jobs = append(jobs, exp.Job())
	}

	fmt.Printf("comparing integrators on %s (dt=%g, duration=%.2fs)\n\n", base.Name, base.Sim.Dt, base.Sim.Duration)
	start := time.Now()
	results, err := sim.NewEnsemble(0, jobs...).Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTRAVEL\tPENETRATION\tENERGY_GAIN\tCONTACT")
	for i, res := range results {
		m := res.Metrics
		fmt.Fprintf(w, "%s\t%.6f\t%.3e\t%.3e\t%.3f\n", names[i], m["travel"], m["max_penetration"], m["energy_gain"], m["contact_fraction"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal wall time: %v\n", time.Since(start))
	return nil
}

// compareBase loads the preset and applies --dt and --time only when set.
func compareBase(cmd *cobra.Command, preset string) (*config.Config, error) {
	base := config.GetPreset(preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if cmd.Flags().Changed("dt") {
		base.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		base.Sim.Duration = duration
	}
	return base, nil
}
