// Package batch runs the jobs of an imgwarp config against one input image.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/warp"
	"github.com/gogpu/warp/internal/config"
	"github.com/gogpu/warp/internal/telemetry"
)

// PreparedName is the file stem of the prepared input written next to the
// job outputs.
const PreparedName = "input"

// JobResult describes one job of a run.
type JobResult struct {
	Name     string        `yaml:"name"`
	Mode     string        `yaml:"mode"`
	Canvas   string        `yaml:"canvas,omitempty"`
	Width    int           `yaml:"width,omitempty"`
	Height   int           `yaml:"height,omitempty"`
	Output   string        `yaml:"output,omitempty"`
	Duration time.Duration `yaml:"duration"`
	Error    string        `yaml:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Input    string      `yaml:"input"`
	Width    int         `yaml:"width"`
	Height   int         `yaml:"height"`
	Channels int         `yaml:"channels"`
	Jobs     []JobResult `yaml:"jobs"`
}

// Failed returns the number of jobs that ended with an error.
func (r Report) Failed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Error != "" {
			n++
		}
	}
	return n
}

// WriteFile stores the report as YAML.
func (r Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("batch: encode report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Run loads cfg.Input, prepares it (resize when the size differs, then
// optional gray conversion), writes the prepared image and executes every
// job in order. A failed job is recorded and the run continues; the
// returned error joins all job failures. Cancelling ctx stops the run
// before the next job.
func Run(ctx context.Context, cfg config.Config, rec telemetry.Recorder) (Report, error) {
	if rec == nil {
		rec = telemetry.Nop{}
	}
	log := slog.Default()

	src, err := prepare(cfg)
	if err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("batch: %w", err)
	}
	if err := src.Save(outputPath(cfg, PreparedName), cfg.Quality); err != nil {
		return Report{}, fmt.Errorf("batch: save prepared input: %w", err)
	}

	report := Report{
		Input:    cfg.Input,
		Width:    src.Width(),
		Height:   src.Height(),
		Channels: src.Channels(),
	}
	log.Info("batch: input ready",
		slog.String("input", cfg.Input),
		slog.Int("width", src.Width()),
		slog.Int("height", src.Height()),
		slog.Int("jobs", len(cfg.Jobs)),
	)

	var errs []error
	for _, job := range cfg.Jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := runJob(cfg, job, src, rec)
		report.Jobs = append(report.Jobs, res)
		if err != nil {
			log.Error("batch: job failed", slog.String("job", job.Name), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("job %q: %w", job.Name, err))
			continue
		}
		log.Info("batch: job done",
			slog.String("job", job.Name),
			slog.String("canvas", res.Canvas),
			slog.String("output", res.Output),
			slog.Duration("duration", res.Duration),
		)
	}
	return report, errors.Join(errs...)
}

func prepare(cfg config.Config) (*warp.Raster, error) {
	src, err := warp.LoadRaster(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("batch: load input: %w", err)
	}
	if r := cfg.Resize; !r.IsZero() && (src.Width() != r.Width || src.Height() != r.Height) {
		if src, err = src.Resize(r.Width, r.Height); err != nil {
			return nil, fmt.Errorf("batch: resize input: %w", err)
		}
	}
	if cfg.Grayscale {
		src = src.Gray()
	}
	return src, nil
}

func runJob(cfg config.Config, job config.Job, src *warp.Raster, rec telemetry.Recorder) (JobResult, error) {
	res := JobResult{Name: job.Name, Mode: job.Mode}
	fail := func(err error) (JobResult, error) {
		res.Error = err.Error()
		rec.ObserveFailure(res.Mode, Kind(err))
		return res, err
	}

	mode, err := warp.ParseMode(job.Mode)
	if err != nil {
		return fail(err)
	}
	res.Mode = mode.String()
	a, err := job.Transform()
	if err != nil {
		return fail(err)
	}
	// Reflection crops its output, so the canvas is measured separately.
	canvasPixels := 0
	if b, err := warp.CanvasBounds(src.Width(), src.Height(), a, mode); err == nil {
		res.Canvas = b.String()
		canvasPixels = b.Pixels()
	}

	start := time.Now()
	out, err := warp.Warp(src, a, mode, warp.WithWorkers(cfg.Workers))
	res.Duration = time.Since(start)
	if err != nil {
		return fail(err)
	}
	res.Width, res.Height = out.Width(), out.Height()

	path := outputPath(cfg, job.Name)
	if err := out.Save(path, cfg.Quality); err != nil {
		return fail(err)
	}
	res.Output = path
	rec.ObserveWarp(res.Mode, res.Duration, canvasPixels)
	return res, nil
}

func outputPath(cfg config.Config, stem string) string {
	return filepath.Join(cfg.OutputDir, stem+"."+cfg.Format)
}

// Kind classifies a job error for the failures metric.
func Kind(err error) string {
	switch {
	case errors.Is(err, warp.ErrSingularTransform):
		return "singular"
	case errors.Is(err, warp.ErrCanvasTooLarge):
		return "canvas"
	case errors.Is(err, warp.ErrInvalidArgument):
		return "invalid"
	default:
		return "io"
	}
}
