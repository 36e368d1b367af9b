package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/automation"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/sim"
)

const sweepCacheSize = 64

func systemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "list the available systems and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SYSTEM\tDIM\tPARAMETERS\tDESCRIPTION")
			for _, k := range models.Kinds() {
				m := k.New()
				p := m.GetParams()
				desc := ""
				for i, name := range models.ParamNames(m) {
					if i > 0 {
						desc += " "
					}
					desc += fmt.Sprintf("%s=%g", name, p[name])
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", k, m.StateDim(), desc, k.Description())
			}
			return w.Flush()
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := models.ParseKind(args[0]); err != nil {
				return err
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.Presets[args[0]][name]
				fmt.Printf("  %-22s init=%v duration=%g %v\n", name, p.InitState, p.Duration, p.Params)
			}
			return nil
		},
	}
}

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state [system]",
		Short: "state at the end of the horizon, exact when a closed form exists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			x := sim.StateAt(m, x0, cfg.Duration, cfg.Dt)
			method := "rk4"
			if _, ok := m.(dynamo.ClosedForm); ok {
				method = "closed form"
			}
			fmt.Printf("%s at t=%g (%s)\n", cfg.System, cfg.Duration, method)
			for i, label := range m.Labels() {
				fmt.Printf("  %-10s %.10g\n", label, x[i])
			}
			if c, ok := m.(dynamo.Conserved); ok {
				fmt.Printf("  invariant  %.10g (initial %.10g)\n", c.Invariant(x), c.Invariant(x0))
			}
			return nil
		},
	}
	addSimFlags(cmd)
	return cmd
}

func fixedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixed [system]",
		Short: "locate and classify equilibria in a region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, systemArg(args))
			if err != nil {
				return err
			}
			m, err := cfg.BuildSystem()
			if err != nil {
				return err
			}
			r := cfg.Region
			fmt.Printf("%s over [%g,%g]x[%g,%g], grid %d\n", cfg.System, r.XMin, r.XMax, r.YMin, r.YMax, r.Grid)
			printFixedPoints(analysis.Equilibria(m, r))
			return nil
		},
	}
	addSimFlags(cmd)
	return cmd
}

func fieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field [system]",
		Short: "sample the vector field on the region lattice",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, systemArg(args))
			if err != nil {
				return err
			}
			m, err := cfg.BuildSystem()
			if err != nil {
				return err
			}
			samples := sim.SampleField(m, cfg.Region)
			if len(samples) == 0 {
				return fmt.Errorf("%w: %s is %d-dimensional, field sampling needs 2",
					dynamo.ErrDimensionMismatch, cfg.System, m.StateDim())
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "X\tY\tDX\tDY")
			for _, s := range samples {
				fmt.Fprintf(w, "%.4g\t%.4g\t%.4g\t%.4g\n", s.Point[0], s.Point[1], s.Vector[0], s.Vector[1])
			}
			return w.Flush()
		},
	}
	addSimFlags(cmd)
	return cmd
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "track equilibria while one parameter varies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := chartSize(cmd)
			cfg, err := resolveConfig(cmd, systemArg(args))
			if err != nil {
				return err
			}
			cache, err := analysis.NewSweepCache(sweepCacheSize)
			if err != nil {
				return err
			}
			spec := automation.SweepSpec{
				System: cfg.System,
				Params: cfg.Params,
				Param:  sweepParam,
				Min:    sweepMin,
				Max:    sweepMax,
				Steps:  sweepSteps,
				Region: cfg.Region,
			}
			pts, err := automation.RunSweep(spec, cache)
			if err != nil {
				return err
			}
			logger.Debug("sweep done", zap.String("param", sweepParam), zap.Int("values", len(pts)))

			for _, p := range pts {
				fmt.Printf("%s=%-10.4g", sweepParam, p.Param)
				if len(p.Points) == 0 {
					fmt.Print("  none")
				}
				for _, fp := range p.Points {
					fmt.Printf("  %s %s", formatState(fp.Location), fp.Stability)
				}
				fmt.Println()
			}
			fmt.Println()
			fmt.Println(analysis.BifurcationToASCII(pts, 0, w, h))
			return nil
		},
	}
	addSimFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "vary", "", "parameter to vary")
	cmd.Flags().Float64Var(&sweepMin, "from", 0, "first value")
	cmd.Flags().Float64Var(&sweepMax, "to", 1, "last value")
	cmd.Flags().IntVar(&sweepSteps, "steps", 21, "number of values")
	cmd.Flags().Int("width", 60, "chart width")
	cmd.Flags().Int("height", 16, "chart height")
	_ = cmd.MarkFlagRequired("vary")
	return cmd
}
