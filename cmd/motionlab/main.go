package main

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/logging"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	route      string
	tracker    string
	maxVel     float64
	maxAccel   float64
	noSave     bool
	speed      float64
	output     string
	width      int
	height     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "motionlab",
		Short:        "differential drive motion planning and tracking lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motionlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "plan a route and show its velocity profile",
		RunE:  planRoute,
	}
	addRouteFlags(planCmd)

	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "plan a route and follow it on the simulated robot",
		RunE:  followRoute,
	}
	addRouteFlags(followCmd)
	followCmd.Flags().StringVar(&tracker, "tracker", "ramsete", "tracker (ramsete, stanley)")
	followCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "follow a route with a live view",
		RunE:  watchRoute,
	}
	addRouteFlags(watchCmd)
	watchCmd.Flags().StringVar(&tracker, "tracker", "ramsete", "tracker (ramsete, stanley)")
	watchCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed relative to real time")
	watchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	moveCmd := &cobra.Command{
		Use:   "move [primitive] [args...]",
		Short: "run one chassis motion",
		Args:  cobra.MinimumNArgs(1),
		RunE:  moveRobot,
	}
	moveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	primitivesCmd := &cobra.Command{
		Use:   "primitives",
		Short: "list chassis motions",
		RunE:  listPrimitives,
	}

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "list configured and preset routes",
		RunE:  listRoutes,
	}

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

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export planned and driven paths to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export the velocity profile to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.png)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search tracker gains on a route",
		RunE:  tuneGains,
	}
	addRouteFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tracker, "tracker", "ramsete", "tracker (ramsete, stanley)")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"ramsete.beta=2,4,6", "ramsete.zeta=0.15,0.25,0.5"}, "parameter values as name=v1,v2")
	tuneCmd.Flags().StringVar(&metric, "metric", "cross_track_rms", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel trials")
	tuneCmd.Flags().IntVar(&top, "top", 5, "trials to show")

	routineCmd := &cobra.Command{
		Use:   "routine [file]",
		Short: "run a scripted sequence of paths and motions",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoutine,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "follow a route from randomly perturbed start poses",
		RunE:  runMonteCarlo,
	}
	addRouteFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&tracker, "tracker", "ramsete", "tracker (ramsete, stanley)")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&positionNoise, "position-noise", 2, "max start offset (in)")
	monteCarloCmd.Flags().Float64Var(&headingNoise, "heading-noise", 5, "max start heading offset (deg)")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(planCmd, followCmd, watchCmd, moveCmd, primitivesCmd, routesCmd,
		listCmd, plotCmd, exportSVGCmd, exportPNGCmd, exportJSONCmd, tuneCmd,
		routineCmd, monteCarloCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&route, "route", config.DefaultRoute, "route name")
	cmd.Flags().Float64Var(&maxVel, "max-vel", config.DefaultMaxVelocity, "max velocity (in/s)")
	cmd.Flags().Float64Var(&maxAccel, "max-accel", config.DefaultMaxAcceleration, "max acceleration (in/s^2)")
}

// loadConfig reads --config, or the defaults, and applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}
	flags := cmd.Flags()
	if flags.Lookup("route") != nil && (flags.Changed("route") || configFile == "") {
		cfg.Route = route
	}
	if flags.Changed("max-vel") {
		cfg.Planner.MaxVelocity = maxVel
	}
	if flags.Changed("max-accel") {
		cfg.Planner.MaxAcceleration = maxAccel
	}
	return cfg, cfg.Validate()
}

func newLogger() (*zap.SugaredLogger, error) {
	return logging.NewLogger("motionlab", logLevel)
}
