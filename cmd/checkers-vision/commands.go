package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/checkers-vision/internal/config"
	"github.com/ironsheep/checkers-vision/internal/imaging"
	"github.com/ironsheep/checkers-vision/internal/logging"
	"github.com/ironsheep/checkers-vision/internal/recognition"
	"github.com/ironsheep/checkers-vision/internal/server"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "checkers-vision",
		Short:         "Locate checkers pieces in board images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(newDetectCmd(a), newServeCmd(a), newVersionCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

type detectFlags struct {
	scale      int
	workers    int
	downscale  bool
	blur       float64
	jsonOut    bool
	annotate   string
	markerSize int
}

func newDetectCmd(a *app) *cobra.Command {
	f := &detectFlags{}

	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Detect blue and red pieces in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Options()
			flags := cmd.Flags()
			if flags.Changed("scale") {
				opts.Scale = f.scale
			}
			if flags.Changed("workers") {
				opts.Workers = f.workers
			}
			if flags.Changed("downscale") {
				opts.Downscale = f.downscale
			}
			if flags.Changed("blur") {
				opts.BlurRadius = f.blur
			}
			return runDetect(cmd, a, args[0], opts, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.scale, "scale", 1, "block size divisor (1-4)")
	flags.IntVar(&f.workers, "workers", 1, "goroutines classifying blocks")
	flags.BoolVar(&f.downscale, "downscale", false, "shrink the image by scale before scanning")
	flags.Float64Var(&f.blur, "blur", 0, "Gaussian blur radius applied before scanning")
	flags.BoolVar(&f.jsonOut, "json", false, "print the detection as JSON")
	flags.StringVar(&f.annotate, "annotate", "", "write an annotated PNG to this path")
	flags.IntVar(&f.markerSize, "marker-radius", 0, "annotation ring radius (default from config)")
	return cmd
}

func runDetect(cmd *cobra.Command, a *app, path string, opts recognition.Options, f *detectFlags) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}

	det, err := recognition.NewDetector(opts, a.logger.With(zap.String("path", path))).DetectImage(cmd.Context(), img)
	if err != nil {
		return err
	}

	if f.annotate != "" {
		radius := a.cfg.Annotate.Radius
		if f.markerSize > 0 {
			radius = f.markerSize
		}
		markers := det.Markers(a.cfg.Annotate.BlueColor, a.cfg.Annotate.RedColor)
		out, err := imaging.DrawMarkers(img, markers, imaging.AnnotateOptions{
			Radius:     radius,
			LabelColor: a.cfg.Annotate.LabelColor,
		})
		if err != nil {
			return err
		}
		if err := imaging.SavePNG(f.annotate, out); err != nil {
			return err
		}
		a.logger.Info("annotated image written", zap.String("output", f.annotate), zap.Int("markers", len(markers)))
	}

	w := cmd.OutOrStdout()
	if f.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(det)
	}
	printDetection(w, det)
	return nil
}

func printDetection(w io.Writer, det *recognition.Detection) {
	fmt.Fprintf(w, "Blue points: %d\n", det.BluePoints)
	fmt.Fprintf(w, "Red points: %d\n", det.RedPoints)

	printSide(w, "Blue", det.Blue)
	printSide(w, "Red", det.Red)

	s := det.Summary
	fmt.Fprintf(w, "Summary: %d blue (%d kings), %d red (%d kings)\n",
		s.BluePieces, s.BlueKings, s.RedPieces, s.RedKings)
	fmt.Fprintf(w, "Timings: points %s, clusterize %s, total %s\n",
		det.Timings.Points, det.Timings.Clusterize, det.Timings.Total)
}

func printSide(w io.Writer, side string, pieces []recognition.ClusterResult) {
	fmt.Fprintf(w, "%s pieces: %d\n", side, len(pieces))
	for _, p := range pieces {
		kind := "piece"
		if p.King {
			kind = "king"
		}
		fmt.Fprintf(w, "  row=%d col=%d %s votes=%d yellow=%d spread=%.2f\n",
			p.Row, p.Col, kind, p.Votes, p.Yellow, p.Spread)
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: "Run the MCP server on stdin/stdout.\n\n" +
			"Configure it in your MCP client. Logs go to stderr; set CHECKERS_LOG_LEVEL=debug for request tracing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debug("starting MCP server",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("commit", GitCommit))

			srv := server.New(a.cfg, a.logger)
			srv.SetVersion(Version)
			return srv.Run(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "checkers-vision %s\n", Version)
			fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
		},
	}
}
