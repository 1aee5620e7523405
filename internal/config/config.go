// Package config loads imgwarp batch files: one input image and a list of
// warp jobs applied to it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gogpu/warp"
)

// SupportedSchema is the only accepted schema_version.
const SupportedSchema = "v1"

// EnvPrefix selects environment overrides; nested keys use "__", so
// WARP__LOG__LEVEL=debug sets log.level.
const EnvPrefix = "WARP__"

// Output formats accepted in the format key.
var formats = []string{"png", "jpg", "bmp", "tiff"}

// Size is the resize target applied to the input before any job. The zero
// value keeps the input size.
type Size struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// IsZero reports whether no resize was requested.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// LogConfig selects the slog level and handler of the CLI.
type LogConfig struct {
	Level string `koanf:"level"` // debug|info|warn|error
	JSON  bool   `koanf:"json"`
}

// ComposeParams holds the primitives of a composed transform. A nil field is
// an absent primitive.
type ComposeParams struct {
	TX    *float64 `koanf:"tx"`
	TY    *float64 `koanf:"ty"`
	Angle *float64 `koanf:"angle"` // degrees
	SX    *float64 `koanf:"sx"`
	SY    *float64 `koanf:"sy"`
	Shear *float64 `koanf:"shear"`
}

// Options converts the present primitives to warp.Compose options.
func (p ComposeParams) Options() []warp.ComposeOption {
	var opts []warp.ComposeOption
	add := func(v *float64, opt func(float64) warp.ComposeOption) {
		if v != nil {
			opts = append(opts, opt(*v))
		}
	}
	add(p.TX, warp.WithTX)
	add(p.TY, warp.WithTY)
	add(p.Angle, warp.WithAngle)
	add(p.SX, warp.WithSX)
	add(p.SY, warp.WithSY)
	add(p.Shear, warp.WithShear)
	return opts
}

// Job is one warp of the input image.
type Job struct {
	Name    string         `koanf:"name"`
	Mode    string         `koanf:"mode"`
	Compose *ComposeParams `koanf:"compose"`
	Matrix  []float64      `koanf:"matrix"` // 9 values, row major
}

// Transform returns the job's matrix, either composed from primitives or
// taken as given. Exactly one of compose and matrix must be set.
func (j Job) Transform() (warp.Transform, error) {
	switch {
	case j.Compose != nil && j.Matrix != nil:
		return warp.Transform{}, fmt.Errorf("%w: job %q sets both compose and matrix", warp.ErrInvalidArgument, j.Name)
	case j.Compose != nil:
		return warp.Compose(j.Compose.Options()...), nil
	case j.Matrix != nil:
		t, err := warp.TransformFromSlice(j.Matrix)
		if err != nil {
			return warp.Transform{}, fmt.Errorf("job %q: %w", j.Name, err)
		}
		return t, nil
	default:
		return warp.Transform{}, fmt.Errorf("%w: job %q needs compose or matrix", warp.ErrInvalidArgument, j.Name)
	}
}

// Config is a parsed batch file: where the input comes from, how it is
// prepared and written, and the jobs to run on it.
type Config struct {
	SchemaVersion string    `koanf:"schema_version"`
	Input         string    `koanf:"input"`
	Grayscale     bool      `koanf:"grayscale"`
	Resize        Size      `koanf:"resize"`
	OutputDir     string    `koanf:"output_dir"`
	Format        string    `koanf:"format"` // png|jpg|bmp|tiff
	Quality       int       `koanf:"quality"`
	Workers       int       `koanf:"workers"`
	Log           LogConfig `koanf:"log"`
	Jobs          []Job     `koanf:"jobs"`
}

// Load merges the YAML file at path with WARP__ environment overrides,
// applies defaults and validates the result. Relative input and output_dir
// paths are resolved against the directory of path.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if sv := k.String("schema_version"); sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config: schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&cfg)

	if path != "" {
		dir := filepath.Dir(path)
		cfg.Input = resolve(dir, cfg.Input)
		cfg.OutputDir = resolve(dir, cfg.OutputDir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Format == "" {
		c.Format = "jpg"
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "jpeg" {
		c.Format = "jpg"
	}
	if c.Quality == 0 {
		c.Quality = 90
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks every field and job. Errors wrap warp.ErrInvalidArgument.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{warp.ErrInvalidArgument}, args...)...))
	}

	if c.SchemaVersion != SupportedSchema {
		bad("schema_version %q not supported", c.SchemaVersion)
	}
	if c.Input == "" {
		bad("input is required")
	}
	if !slices.Contains(formats, c.Format) {
		bad("format %q (want one of %s)", c.Format, strings.Join(formats, ", "))
	}
	if c.Quality < 1 || c.Quality > 100 {
		bad("quality %d outside 1..100", c.Quality)
	}
	if c.Workers < 0 {
		bad("workers %d is negative", c.Workers)
	}
	if !c.Resize.IsZero() && (c.Resize.Width <= 0 || c.Resize.Height <= 0) {
		bad("resize %dx%d", c.Resize.Width, c.Resize.Height)
	}
	if len(c.Jobs) == 0 {
		bad("no jobs")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for i, j := range c.Jobs {
		switch {
		case j.Name == "":
			bad("job %d has no name", i)
		case strings.ContainsAny(j.Name, `/\`):
			bad("job name %q contains a path separator", j.Name)
		case seen[j.Name]:
			bad("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
		if _, err := warp.ParseMode(j.Mode); err != nil {
			errs = append(errs, fmt.Errorf("job %q: %w", j.Name, err))
		}
		if _, err := j.Transform(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
