// Command imgwarp warps images by 3x3 transforms.
//
// Batch form, driven by a YAML job file:
//
//	imgwarp --config jobs.yaml [--report report.yaml] [--metrics-file imgwarp.prom]
//
// Single form:
//
//	imgwarp -i in.png -o out.png --mode rotation --angle 30
//	imgwarp -i in.png -o out.png --mode homography --matrix 1,0,0,0,1,0,0.001,0,1
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gogpu/warp"
	"github.com/gogpu/warp/internal/batch"
	"github.com/gogpu/warp/internal/config"
	"github.com/gogpu/warp/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

type options struct {
	configPath  string
	reportPath  string
	metricsPath string

	input, output string
	mode          string
	matrix        []float64
	tx, ty        float64
	angle         float64
	sx, sy        float64
	shear         float64
	gray          bool
	workers       int
	quality       int
	logLevel      string
	logJSON       bool
}

func newFlagSet(o *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("imgwarp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&o.configPath, "config", "c", "", "batch job file (YAML)")
	fs.StringVar(&o.reportPath, "report", "", "write a YAML run report (batch form)")
	fs.StringVar(&o.metricsPath, "metrics-file", "", "write Prometheus metrics in text format (batch form)")

	fs.StringVarP(&o.input, "input", "i", "", "input image")
	fs.StringVarP(&o.output, "output", "o", "", "output image; the extension selects the format")
	fs.StringVarP(&o.mode, "mode", "m", "affine", "transform mode: "+modeList())
	fs.Float64SliceVar(&o.matrix, "matrix", nil, "nine comma separated matrix entries, row major")
	fs.Float64Var(&o.tx, "tx", 0, "translation along x")
	fs.Float64Var(&o.ty, "ty", 0, "translation along y")
	fs.Float64Var(&o.angle, "angle", 0, "rotation in degrees")
	fs.Float64Var(&o.sx, "sx", 1, "scale along x")
	fs.Float64Var(&o.sy, "sy", 1, "scale along y")
	fs.Float64Var(&o.shear, "shear", 0, "horizontal shear factor")
	fs.BoolVar(&o.gray, "gray", false, "convert the input to gray before warping")
	fs.IntVarP(&o.workers, "workers", "w", 1, "resampling goroutines")
	fs.IntVarP(&o.quality, "quality", "q", 90, "JPEG quality")

	fs.StringVar(&o.logLevel, "log-level", "info", "debug|info|warn|error")
	fs.BoolVar(&o.logJSON, "log-json", false, "log as JSON")
	return fs
}

func modeList() string {
	var names []string
	for _, m := range warp.Modes() {
		names = append(names, m.String())
	}
	return strings.Join(names, "|")
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	var err error
	if o.configPath != "" {
		err = runBatch(ctx, o, fs, stderr)
	} else {
		log := newLogger(stderr, o.logLevel, o.logJSON)
		err = runSingle(o, fs, log)
	}
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("imgwarp failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func runBatch(ctx context.Context, o options, fs *pflag.FlagSet, stderr io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	// Explicit flags win over the file.
	level, asJSON := cfg.Log.Level, cfg.Log.JSON
	if fs.Changed("log-level") {
		level = o.logLevel
	}
	if fs.Changed("log-json") {
		asJSON = o.logJSON
	}
	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	log := newLogger(stderr, level, asJSON)

	metrics := telemetry.NewMetrics()
	report, runErr := batch.Run(ctx, cfg, metrics)

	if o.reportPath != "" {
		if err := report.WriteFile(o.reportPath); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if o.metricsPath != "" {
		if err := metrics.WriteFile(o.metricsPath); err != nil {
			return errors.Join(runErr, err)
		}
	}
	log.Info("imgwarp: batch finished",
		slog.Int("jobs", len(report.Jobs)),
		slog.Int("failed", report.Failed()),
	)
	return runErr
}

func runSingle(o options, fs *pflag.FlagSet, log *slog.Logger) error {
	if o.input == "" || o.output == "" {
		return fmt.Errorf("%w: --input and --output are required without --config", warp.ErrInvalidArgument)
	}
	mode, err := warp.ParseMode(o.mode)
	if err != nil {
		return err
	}
	a, err := singleTransform(o, fs)
	if err != nil {
		return err
	}

	src, err := warp.LoadRaster(o.input)
	if err != nil {
		return err
	}
	if o.gray {
		src = src.Gray()
	}
	out, err := warp.Warp(src, a, mode, warp.WithWorkers(o.workers))
	if err != nil {
		return err
	}
	if err := out.Save(o.output, o.quality); err != nil {
		return err
	}
	log.Info("imgwarp: saved",
		slog.String("output", o.output),
		slog.String("mode", mode.String()),
		slog.Int("width", out.Width()),
		slog.Int("height", out.Height()),
	)
	return nil
}

// singleTransform builds the matrix from --matrix or from the compose
// flags that were set on the command line.
func singleTransform(o options, fs *pflag.FlagSet) (warp.Transform, error) {
	var opts []warp.ComposeOption
	add := func(name string, v float64, opt func(float64) warp.ComposeOption) {
		if fs.Changed(name) {
			opts = append(opts, opt(v))
		}
	}
	add("tx", o.tx, warp.WithTX)
	add("ty", o.ty, warp.WithTY)
	add("angle", o.angle, warp.WithAngle)
	add("sx", o.sx, warp.WithSX)
	add("sy", o.sy, warp.WithSY)
	add("shear", o.shear, warp.WithShear)

	if fs.Changed("matrix") {
		if len(opts) > 0 {
			return warp.Transform{}, fmt.Errorf("%w: --matrix cannot be combined with compose flags", warp.ErrInvalidArgument)
		}
		return warp.TransformFromSlice(o.matrix)
	}
	return warp.Compose(opts...), nil
}
