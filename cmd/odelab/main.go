package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/logging"
)

var (
	dataDir    string
	logLevel   string
	logFile    string
	envFile    string
	configFile string

	dt         float64
	duration   float64
	integrator string
	preset     string
	params     []string
	initState  []float64
	region     []float64
	grid       int

	live      bool
	frameRate int
	noSave    bool
	runName   string

	xAxis  int
	yAxis  int
	output string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	trials  int
	perturb float64
	seed    int64

	// base holds the file, .env and global flag settings; commands start
	// from a copy of it.
	base   = config.DefaultConfig()
	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "odelab",
		Short:             "ordinary differential equation lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { _ = logger.Sync() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "run storage directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "also write logs to this file")
	pf.StringVar(&envFile, "env", "", ".env file to load (default ./.env)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(
		systemsCmd(), presetsCmd(),
		runCmd(), stateCmd(), fixedCmd(), fieldCmd(), sweepCmd(),
		listCmd(), plotCmd(), phaseCmd(), exportJSONCmd(), exportSVGCmd(), deleteCmd(),
		compareCmd(), batchCmd(), monteCarloCmd(), optimizeCmd(), exploreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup resolves the shared settings and builds the logger. Precedence is
// config file, then environment, then flags.
func setup(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		base = cfg
	}
	if envFile != "" {
		base.ApplyEnv(envFile)
	} else {
		base.ApplyEnv()
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		base.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		base.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		base.LogFile = logFile
	}

	l, err := logging.New(base.LogLevel, base.LogFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger = l
	logger.Debug("settings resolved",
		zap.String("command", cmd.Name()),
		zap.String("data_dir", base.DataDir),
		zap.String("config", configFile))
	return nil
}
