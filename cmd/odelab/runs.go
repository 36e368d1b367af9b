package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/export"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/storage"
)

const maxPlots = 6

func openStore() *storage.Store {
	return storage.New(base.DataDir, logger)
}

// loadRun rebuilds the configuration and outcome of a stored run.
func loadRun(id string) (*config.Config, *experiment.Outcome, error) {
	st := openStore()
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(id)
	if err != nil {
		return nil, nil, err
	}
	cfg := &config.Config{
		System:     meta.System,
		Integrator: meta.Integrator,
		Params:     meta.Params,
		InitState:  meta.InitState,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Region:     meta.Region,
	}
	out := &experiment.Outcome{
		System:      meta.System,
		Params:      meta.Params,
		InitState:   meta.InitState,
		Trajectory:  traj,
		FixedPoints: meta.FixedPoints,
		Metrics:     meta.Metrics,
	}
	return cfg, out, nil
}

func labelsFor(system string, dim int) []string {
	if m, err := models.Lookup(system); err == nil && m.StateDim() == dim {
		return m.Labels()
	}
	labels := make([]string, dim)
	for i := range labels {
		labels[i] = fmt.Sprintf("x%d", i)
	}
	return labels
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := openStore().List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSYSTEM\tTIME\tDURATION\tDT\tINTEG\tEQUILIBRIA")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.4g\t%s\t%d\n",
					run.ID,
					run.Name,
					run.System,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Integrator,
					len(run.FixedPoints),
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot every component of a run against time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := chartSize(cmd)
			_, out, err := loadRun(args[0])
			if err != nil {
				return err
			}
			traj := out.Trajectory
			if traj.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", args[0])
			fmt.Printf("system: %s\n", out.System)
			fmt.Printf("samples: %d\n\n", traj.Len())

			labels := labelsFor(out.System, len(traj.States[0]))
			for i := 0; i < min(len(labels), maxPlots); i++ {
				graph := asciigraph.Plot(traj.Component(i),
					asciigraph.Height(h),
					asciigraph.Width(w),
					asciigraph.Caption(fmt.Sprintf("%s vs time, t in [0, %g]", labels[i], traj.Times[traj.Len()-1])),
				)
				fmt.Println(graph)
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().Int("width", 80, "chart width")
	cmd.Flags().Int("height", 10, "chart height")
	return cmd
}

func phaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot of a run with its equilibria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := chartSize(cmd)
			_, out, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if out.Trajectory.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}
			dim := len(out.Trajectory.States[0])
			if xAxis >= dim || yAxis >= dim || xAxis < 0 || yAxis < 0 {
				return fmt.Errorf("%w: axes %d,%d out of range for %d components",
					dynamo.ErrDimensionMismatch, xAxis, yAxis, dim)
			}

			labels := labelsFor(out.System, dim)
			p := analysis.NewPhasePortrait([]*dynamo.Trajectory{out.Trajectory}, out.FixedPoints, xAxis, yAxis)
			fmt.Printf("%s: %s vs %s\n", out.System, labels[yAxis], labels[xAxis])
			fmt.Println(analysis.PhasePortraitToASCII(p, w, h))
			return nil
		},
	}
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	cmd.Flags().Int("width", 70, "plot width")
	cmd.Flags().Int("height", 25, "plot height")
	return cmd
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, out, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteJSON(os.Stdout, cfg, out)
		},
	}
}

func exportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a run's phase portrait, or time series when scalar, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := chartSize(cmd)
			_, out, err := loadRun(args[0])
			if err != nil {
				return err
			}
			traj := out.Trajectory
			if traj.Len() < 2 {
				return fmt.Errorf("no data to export")
			}

			var svg string
			if len(traj.States[0]) >= 2 {
				p := analysis.NewPhasePortrait([]*dynamo.Trajectory{traj}, out.FixedPoints, 0, 1)
				svg = export.PortraitToSVG(p, w, h)
			} else {
				pts := make([]struct{ X, Y float64 }, traj.Len())
				for i := range pts {
					pts[i].X, pts[i].Y = traj.Times[i], traj.States[i][0]
				}
				svg = export.TrajectoryToSVG(pts, w, h, "#00ccff")
			}

			path := output
			if path == "" {
				path = args[0] + ".svg"
			}
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			logger.Info("exported svg", zap.String("id", args[0]), zap.String("path", path))
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default <run_id>.svg)")
	cmd.Flags().Int("width", 800, "image width")
	cmd.Flags().Int("height", 600, "image height")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id]",
		Short: "remove a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().Delete(args[0])
		},
	}
}
