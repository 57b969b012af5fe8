package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nchain/internal/analysis"
	"github.com/san-kum/nchain/internal/automation"
	"github.com/san-kum/nchain/internal/config"
	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/export"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/metrics"
	"github.com/san-kum/nchain/internal/optim"
	"github.com/san-kum/nchain/internal/physics"
	"github.com/san-kum/nchain/internal/sim"
	"github.com/san-kum/nchain/internal/viz"
)

const (
	// Angular speed above which a sample no longer counts as stable.
	maxStableSpeed = 100.0

	defaultSampleEvery = 10
)

var (
	configFile string
	preset     string
	solver     string
	dt         float64
	duration   float64
	gravity    float64
	armLength  float64
	fps        int
	traceLen   int
	thetas     []float64
	thetaDots  []float64
	theme      string

	jsonOut     bool
	csvOut      bool
	sampleEvery int

	// analyze
	phaseLink  int
	poincare   bool
	sweep      bool
	sweepSteps int

	// bench
	benchTime float64

	// svg
	svgOut    string
	svgWidth  int
	svgHeight int

	// sweep
	sweepMin    float64
	sweepMax    float64
	sweepValues int

	// tune
	tolerance float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Defining the flags resets the package
// flag variables to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nchain",
		Short:        "n-link pendulum chain simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset as family/name, e.g. double/chaos")
	pf.StringVar(&solver, "solver", config.DefaultSolver, "rk4, symplectic_euler or leapfrog")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	pf.Float64Var(&gravity, "gravity", physics.StandardGravity, "gravitational acceleration")
	pf.Float64Var(&armLength, "arm", config.DefaultArmLength, "total chain length")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate of the live view")
	pf.IntVar(&traceLen, "trace", config.DefaultTraceLength, "tip trail length")
	pf.Float64SliceVar(&thetas, "thetas", nil, "initial angles in radians, one per link")
	pf.Float64SliceVar(&thetaDots, "theta-dots", nil, "initial angular velocities (default zero)")
	pf.StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the chain in the live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "pick a preset and tune it before running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write a JSON report instead of the summary")
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "write the samples as CSV instead of the summary")
	runCmd.Flags().IntVar(&sampleEvery, "sample", defaultSampleEvery, "record every n-th step")

	compareCmd := &cobra.Command{
		Use:   "compare [solver...]",
		Short: "run the same chain under several solvers",
		RunE:  compareSolvers,
	}
	compareCmd.Flags().BoolVar(&jsonOut, "json", false, "write JSON reports instead of the table")
	compareCmd.Flags().IntVar(&sampleEvery, "sample", defaultSampleEvery, "record every n-th step")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency, chaos and phase space analysis",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&sampleEvery, "sample", defaultSampleEvery, "record every n-th step")
	analyzeCmd.Flags().IntVar(&phaseLink, "link", 0, "link shown in the phase portrait")
	analyzeCmd.Flags().BoolVar(&poincare, "poincare", false, "print a Poincaré section of the last link")
	analyzeCmd.Flags().BoolVar(&sweep, "sweep", false, "sweep the release angle")
	analyzeCmd.Flags().IntVar(&sweepSteps, "sweep-steps", 40, "release angles in the sweep")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solvers",
		Args:  cobra.NoArgs,
		RunE:  benchSolvers,
	}
	benchCmd.Flags().Float64Var(&benchTime, "bench-time", 5, "simulated seconds per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "write the tip trace of a headless run as SVG",
		Args:  cobra.NoArgs,
		RunE:  writeSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "nchain-trace.svg", "output file, - for stdout")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	svgCmd.Flags().IntVar(&sampleEvery, "sample", defaultSampleEvery, "record every n-th step")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of several simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&jsonOut, "json", false, "write JSON reports instead of the table")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter: " + strings.Join(automation.SweepParams(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.5, "last value")
	sweepCmd.Flags().IntVar(&sweepValues, "steps", 9, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "find the cheapest solver and timestep within an energy tolerance",
		Args:  cobra.NoArgs,
		RunE:  tuneStep,
	}
	tuneCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-4, "largest acceptable relative energy drift")

	rootCmd.AddCommand(liveCmd, interactiveCmd, runCmd, compareCmd, analyzeCmd, benchCmd, presetsCmd, svgCmd,
		scenarioCmd, sweepCmd, tuneCmd)

	return rootCmd
}

// resolveConfig layers defaults, then the preset, then the config file, then
// any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.LookupPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("solver") {
		cfg.Solver = solver
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("arm") {
		cfg.ArmLength = armLength
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("trace") {
		cfg.TraceLength = traceLen
	}
	if flags.Changed("thetas") {
		cfg.InitState.Thetas = slices.Clone(thetas)
		if !flags.Changed("theta-dots") {
			cfg.InitState.ThetaDots = make([]float64, len(thetas))
		}
	}
	if flags.Changed("theta-dots") {
		cfg.InitState.ThetaDots = slices.Clone(thetaDots)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	chain, err := cfg.NewChain()
	if err != nil {
		return err
	}

	return viz.RunLive(chain, viz.LiveOptions{
		Title:      fmt.Sprintf("%d-link chain", cfg.Links()),
		StepDt:     cfg.Dt,
		MaxFrameDt: cfg.MaxFrameDt,
		FPS:        cfg.FPS,
		Theme:      theme,
	})
}

// headless runs cfg to completion with the standard metric set attached.
func headless(ctx context.Context, cfg *config.Config) (sim.Config, *sim.Result, time.Duration, error) {
	rc := cfg.RunConfig()
	rc.SampleEvery = sampleEvery

	chain, err := cfg.NewChain()
	if err != nil {
		return rc, nil, 0, err
	}

	model := physics.Model{Gravity: cfg.Gravity}
	s := sim.NewSimulator(chain)
	s.AddMetric(metrics.NewEnergy(model))
	s.AddMetric(metrics.NewEnergyDrift(model))
	s.AddMetric(metrics.NewStability(maxStableSpeed))
	s.AddMetric(metrics.NewTipPath(chain.LinkLength()))

	start := time.Now()
	res, err := s.Run(ctx, rc)
	return rc, res, time.Since(start), err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	if !jsonOut && !csvOut {
		fmt.Printf("running %d-link chain with %s...\n", cfg.Links(), cfg.Solver)
	}
	rc, res, elapsed, err := headless(ctx, cfg)
	if res == nil {
		return err
	}

	if jsonOut {
		if werr := export.WriteJSON(os.Stdout, export.NewReport(rc, res)); werr != nil {
			return werr
		}
		return err
	}
	if csvOut {
		if werr := export.WriteCSV(os.Stdout, res); werr != nil {
			return werr
		}
		return err
	}

	if perr := printSummary(res, elapsed); perr != nil {
		return perr
	}
	if len(res.Energies) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Energies,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		))
	}
	return err
}

func printSummary(res *sim.Result, elapsed time.Duration) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "solver\t%s\n", res.Kind)
	fmt.Fprintf(w, "links\t%d\n", res.FinalState().Len())
	fmt.Fprintf(w, "steps\t%d\n", res.StepsTaken)
	fmt.Fprintf(w, "elapsed\t%v\n", elapsed.Round(time.Microsecond))
	if elapsed > 0 {
		fmt.Fprintf(w, "steps/sec\t%.0f\n", float64(res.StepsTaken)/elapsed.Seconds())
	}
	if n := len(res.Energies); n > 0 {
		fmt.Fprintf(w, "initial energy\t%.6f\n", res.Energies[0])
		fmt.Fprintf(w, "final energy\t%.6f\n", res.Energies[n-1])
	}
	fmt.Fprintf(w, "energy drift\t%.3e\n", res.EnergyDrift)

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6f\n", name, res.Metrics[name])
	}
	if res.Err != nil {
		fmt.Fprintf(w, "error\t%v\n", res.Err)
	}
	return w.Flush()
}

func parseKinds(args []string) ([]integrators.Kind, error) {
	if len(args) == 0 {
		return integrators.Kinds(), nil
	}
	kinds := make([]integrators.Kind, 0, len(args))
	for _, a := range args {
		k, err := integrators.ParseKind(a)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	rc := cfg.RunConfig()
	rc.SampleEvery = sampleEvery
	start := time.Now()
	results, err := sim.Compare(ctx, sim.Comparison{
		Kinds:     kinds,
		Thetas:    cfg.InitState.Thetas,
		ThetaDots: cfg.InitState.ThetaDots,
		Config:    rc,
		Options:   cfg.ChainOptions(),
		Metrics: func(c *sim.Chain) []dynamo.Metric {
			return []dynamo.Metric{
				metrics.NewStability(maxStableSpeed),
				metrics.NewTipPath(c.LinkLength()),
			}
		},
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if jsonOut {
		reports := make([]export.Report, len(results))
		for i, r := range results {
			reports[i] = export.NewReport(rc, r)
		}
		return export.WriteJSON(os.Stdout, reports...)
	}

	fmt.Printf("comparing solvers on a %d-link chain (dt=%.4f, duration=%.1fs, wall %v)\n\n",
		cfg.Links(), cfg.Dt, cfg.Duration, elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tSTEPS\tFINAL θ0\tENERGY DRIFT\tSTABILITY\tTIP PATH\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.3e\t%.3f\t%.3f\t%s\n",
			r.Kind,
			r.StepsTaken,
			r.FinalState().Thetas[0],
			r.EnergyDrift,
			r.Metrics["stability"],
			r.Metrics["tip_path"],
			status,
		)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	if phaseLink < 0 || phaseLink >= cfg.Links() {
		return fmt.Errorf("link %d out of range for a %d-link chain", phaseLink, cfg.Links())
	}

	ctx, stop := interruptContext()
	defer stop()

	rc, res, _, err := headless(ctx, cfg)
	if err != nil {
		return err
	}
	if len(res.States) < 4 {
		return fmt.Errorf("not enough samples to analyze (%d)", len(res.States))
	}

	fmt.Printf("analysis of a %d-link chain (%s, dt=%.4f, duration=%.1fs)\n\n",
		cfg.Links(), kind, cfg.Dt, cfg.Duration)

	samples := make([]float64, len(res.States))
	for i, s := range res.States {
		samples[i] = s.Thetas[0]
	}
	sampleDt := rc.Dt * float64(max(rc.SampleEvery, 1))

	spec := analysis.PowerSpectrum(samples, sampleDt)
	if len(spec.Power) > 8 {
		fmt.Println(asciigraph.Plot(spec.Power[:len(spec.Power)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (θ0)"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(samples, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	lambda, err := analysis.LyapunovExponent(analysis.LyapunovConfig{
		Thetas:    cfg.InitState.Thetas,
		ThetaDots: cfg.InitState.ThetaDots,
		Kind:      kind,
		Gravity:   cfg.Gravity,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
	})
	if err != nil {
		return err
	}
	verdict := "regular"
	if lambda > 0.1 {
		verdict = "chaotic"
	}
	fmt.Printf("largest lyapunov exponent: %.4f (%s)\n\n", lambda, verdict)

	portrait := analysis.PhasePortrait(res.States,
		analysis.Coord{Link: phaseLink},
		analysis.Coord{Link: phaseLink, Velocity: true})
	fmt.Printf("phase portrait: θ%d vs θ̇%d\n", phaseLink, phaseLink)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))

	if poincare && cfg.Links() > 1 {
		last := cfg.Links() - 1
		section := analysis.GeneratePoincareSection(res.States,
			analysis.Coord{Link: 0}, 0,
			analysis.Coord{Link: last},
			analysis.Coord{Link: last, Velocity: true})
		fmt.Printf("\npoincaré section at θ0 = 0: θ%d vs θ̇%d\n", last, last)
		fmt.Println(analysis.PoincareSectionToASCII(section, 70, 20))
	}

	if sweep {
		fmt.Printf("\nsweeping release angle over %d values...\n", sweepSteps)
		points, err := analysis.AmplitudeSweep(analysis.SweepConfig{
			Links:     cfg.Links(),
			Kind:      kind,
			MinAngle:  0.1,
			MaxAngle:  math.Pi - 0.1,
			Steps:     sweepSteps,
			Dt:        cfg.Dt,
			Transient: 5,
			Record:    cfg.Duration,
		})
		if err != nil {
			return err
		}
		fmt.Println(analysis.BifurcationToASCII(points, 70, 20))
	}
	return nil
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !(benchTime > 0) {
		return fmt.Errorf("bench-time must be positive, got %g", benchTime)
	}

	dts := []float64{0.01, 0.001}
	if !slices.Contains(dts, cfg.Dt) {
		dts = append(dts, cfg.Dt)
	}

	fmt.Printf("benchmarking a %d-link chain over %.1fs of simulated time\n\n", cfg.Links(), benchTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tDT\tSTEPS\tTIME\tSTEPS/SEC\tNS/STEP")

	for _, kind := range integrators.Kinds() {
		for _, step := range dts {
			chain, err := sim.New(cfg.InitState.Thetas, cfg.InitState.ThetaDots, kind, cfg.ChainOptions()...)
			if err != nil {
				return err
			}
			steps := int(math.Round(benchTime / step))

			start := time.Now()
			for i := 0; i < steps; i++ {
				chain.Update(step)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%v\t%.0f\t%.0f\n",
				kind, step, steps, elapsed.Round(time.Microsecond),
				float64(steps)/elapsed.Seconds(),
				float64(elapsed.Nanoseconds())/float64(steps))
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.Families()
	if len(args) == 1 {
		families = []string{args[0]}
	}
	for _, family := range families {
		names := config.ListPresets(family)
		if len(names) == 0 {
			fmt.Printf("no presets for family: %s\n", family)
			continue
		}
		fmt.Printf("%s:\n", family)
		for _, name := range names {
			p := config.GetPreset(family, name)
			fmt.Printf("  %-10s %2d links  %-16s dt=%g\n", name, p.Links(), p.Solver, p.Dt)
		}
	}
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	_, res, _, err := headless(ctx, cfg)
	if err != nil {
		return err
	}

	svg := export.TraceToSVG(res.Tips, svgWidth, svgHeight, string(viz.GetTheme(theme).Trail))
	if svg == "" {
		return fmt.Errorf("trace too short to draw (%d points)", len(res.Tips))
	}
	if svgOut == "-" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d tip positions to %s\n", len(res.Tips), svgOut)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	progress := os.Stdout
	if jsonOut {
		progress = os.Stderr
	}
	if sc.Description != "" {
		fmt.Fprintf(progress, "%s: %s\n", sc.Name, sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, progress)
	if err != nil {
		return err
	}

	if jsonOut {
		reports := make([]export.Report, len(results))
		for i, r := range results {
			reports[i] = export.NewReport(r.Run, r.Result)
		}
		return export.WriteJSON(os.Stdout, reports...)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSOLVER\tLINKS\tDT\tSTEPS\tENERGY DRIFT\tTIP PATH\tSTATUS")
	for i, r := range results {
		status := "ok"
		if r.Result.Err != nil {
			status = r.Result.Err.Error()
		}
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%d\t%.3e\t%.3f\t%s\n",
			name,
			r.Result.Kind,
			r.Result.FinalState().Len(),
			r.Run.Dt,
			r.Result.StepsTaken,
			r.Result.EnergyDrift,
			r.Result.Metrics["tip_path"],
			status,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     cfg,
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepValues,
	}, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMIN ENERGY\tMAX ENERGY\tENERGY DRIFT\tTIP PATH\tFINAL θ0\n", strings.ToUpper(args[0]))
	for _, r := range results {
		drift := fmt.Sprintf("%.3e", r.EnergyDrift)
		if r.Diverged {
			drift = "diverged"
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%s\t%.3f\t%.4f\n",
			r.ParamValue, r.MinEnergy, r.MaxEnergy, drift, r.TipPath, r.FinalState.Thetas[0])
	}
	return w.Flush()
}

func tuneStep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	fmt.Printf("searching %d solvers × %d timesteps for drift ≤ %g over %.1fs...\n",
		len(integrators.Kinds()), len(optim.DefaultStepGrid), tolerance, cfg.Duration)
	best, err := optim.TuneStep(ctx, cfg, nil, tolerance)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "solver\t%s\n", best.Kind)
	fmt.Fprintf(w, "dt\t%g\n", best.Dt)
	fmt.Fprintf(w, "energy drift\t%.3e\n", best.EnergyDrift)
	fmt.Fprintf(w, "equation solves\t%d\n", best.Evaluations)
	return w.Flush()
}
