package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/automation"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/optim"
	"github.com/san-kum/odelab/internal/sim"
	"github.com/san-kum/odelab/internal/storage"
	"github.com/san-kum/odelab/internal/tui"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [system]",
		Short: "integrate a system, analyse it and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(cmd)
	cmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "live frame rate")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&runName, "name", "", "label stored with the run")
	return cmd
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, systemArg(args))
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	if live {
		r := tui.NewLiveRenderer(os.Stdout, cfg.System, exp.Model().Labels(), cfg.Region, frameRate)
		exp.Simulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	ctx, cancel := interruptible()
	defer cancel()

	logger.Info("running", zap.String("system", cfg.System), zap.Float64("dt", cfg.Dt), zap.Float64("duration", cfg.Duration))
	start := time.Now()
	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("system: %s\n", out.System)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("samples: %d\n", out.Trajectory.Len())
	fmt.Printf("final state: %s\n", formatState(out.Trajectory.Final()))
	printFixedPoints(out.FixedPoints)
	printMetrics(out.Metrics)

	if noSave {
		return nil
	}
	st := storage.New(cfg.DataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}
	fp := storage.Fingerprint(out.System, out.Params, out.InitState, cfg.Dt, cfg.Duration, cfg.Integrator)
	if prev, err := st.FindByFingerprint(fp); err == nil {
		logger.Info("identical run already stored", zap.String("id", prev.ID))
	}
	id, err := st.Save(runName, cfg, out)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", id)
	return nil
}

func formatState(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func printFixedPoints(fps []analysis.FixedPoint) {
	if len(fps) == 0 {
		fmt.Println("\nno equilibria in region")
		return
	}
	fmt.Println("\nequilibria:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  LOCATION\tTYPE\tSTABILITY\tEIGENVALUES")
	for _, fp := range fps {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s, %s\n",
			formatState(fp.Location), fp.Type, fp.Stability, fp.Eigenvalues[0], fp.Eigenvalues[1])
	}
	w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [system]",
		Short: "compare euler and rk4 against the exact or a refined solution",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(cmd)
	return cmd
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, systemArg(args))
	if err != nil {
		return err
	}
	m, err := cfg.BuildSystem()
	if err != nil {
		return err
	}
	x0, err := cfg.InitialState(m)
	if err != nil {
		return err
	}

	scores, exact := sim.CompareSteppers(m, x0, cfg.Duration, cfg.Dt,
		[]string{"euler", "rk4"},
		[]integrators.Stepper{integrators.NewEuler(), integrators.NewRK4()})

	reference := "rk4 at dt/100"
	if exact {
		reference = "closed form"
	}
	fmt.Printf("comparing integrators for %s (dt=%.4g, duration=%.4g, reference: %s)\n\n",
		cfg.System, cfg.Dt, cfg.Duration, reference)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL\tERROR\tTIME")
	for _, s := range scores {
		fmt.Fprintf(w, "%s\t%s\t%.3e\t%v\n", s.Name, formatState(s.Final), s.Error, s.Elapsed)
	}
	return w.Flush()
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a yaml scenario of steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			st := storage.New(base.DataDir, logger)
			if err := st.Init(); err != nil {
				return err
			}

			ctx, cancel := interruptible()
			defer cancel()

			results, err := automation.NewRunner(base, st, logger).RunScenario(ctx, sc)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tSYSTEM\tFINAL\tEQUILIBRIA\tRUN")
			for i, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, r.Config.System,
					formatState(r.Outcome.Trajectory.Final()), len(r.Outcome.FixedPoints), r.RunID)
			}
			w.Flush()
			return err
		},
	}
}

func monteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [system]",
		Short: "perturb the initial state and count where the orbits settle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, systemArg(args))
			if err != nil {
				return err
			}
			ctx, cancel := interruptible()
			defer cancel()

			results, fps, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Config:       cfg,
				Perturbation: perturb,
				NumTrials:    trials,
				Seed:         seed,
			})
			if err != nil {
				return err
			}

			bounded, unbounded := automation.MonteCarloStats(results)
			fmt.Printf("%d trials: %d bounded, %d unbounded\n", len(results), bounded, unbounded)
			basins := automation.Basins(results)
			for i, fp := range fps {
				fmt.Printf("  %-24s %-14s %d\n", formatState(fp.Location), fp.Type, basins[i])
			}
			fmt.Printf("  %-24s %-14s %d\n", "elsewhere", "", basins[-1])
			return nil
		},
	}
	addSimFlags(cmd)
	cmd.Flags().IntVar(&trials, "trials", 50, "number of perturbed runs")
	cmd.Flags().Float64Var(&perturb, "perturb", 0.5, "maximum perturbation per component")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	return cmd
}

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [system]",
		Short: "interactive phase plane explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}
}

func runExplore(cmd *cobra.Command, args []string) error {
	return tui.RunExplorer(systemArg(args))
}

func optimizeCmd() *cobra.Command {
	var axes []string
	var metric string
	var maximize bool

	cmd := &cobra.Command{
		Use:   "optimize [system]",
		Short: "grid search parameters for the best value of a run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, systemArg(args))
			if err != nil {
				return err
			}
			parsed := make([]optim.Axis, 0, len(axes))
			for _, a := range axes {
				axis, err := parseAxis(a)
				if err != nil {
					return err
				}
				parsed = append(parsed, axis)
			}

			ctx, cancel := interruptible()
			defer cancel()

			best, n, err := optim.NewGridSearch(parsed, maximize).Search(ctx, cfg, metric)
			if err != nil {
				return err
			}
			fmt.Printf("evaluated %d grid points\n", n)
			fmt.Printf("best %s = %.6g at %v\n", metric, best.Value, best.Params)
			return nil
		},
	}
	addSimFlags(cmd)
	cmd.Flags().StringArrayVar(&axes, "axis", nil, "searched parameter name=from:to:steps (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "", "metric to optimise, e.g. peak_I")
	cmd.Flags().BoolVar(&maximize, "max", false, "maximise instead of minimise")
	_ = cmd.MarkFlagRequired("axis")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
