package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/warp"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	src, err := warp.NewRaster(4, 3, 1)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	src.Fill(90)
	path := filepath.Join(dir, "in.png")
	if err := src.Save(path, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func restoreLoggers(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		warp.SetLogger(nil)
	})
}

func TestRun_Single(t *testing.T) {
	restoreLoggers(t)
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-i", in, "-o", out, "--mode", "translation", "--tx", "3"}, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr.String())
	}
	r, err := warp.LoadRaster(out)
	if err != nil {
		t.Fatalf("LoadRaster: %v", err)
	}
	if r.Width() != 7 || r.Height() != 3 {
		t.Errorf("output = %dx%d, want 7x3", r.Width(), r.Height())
	}
	if !strings.Contains(stderr.String(), "imgwarp: saved") {
		t.Errorf("missing save log:\n%s", stderr.String())
	}
}

func TestRun_SingleMatrix(t *testing.T) {
	restoreLoggers(t)
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.bmp")

	var stderr bytes.Buffer
	args := []string{"-i", in, "-o", out, "--mode", "reflection", "--matrix", "1,0,0,0,-1,0,0,0,1"}
	if code := run(context.Background(), args, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr.String())
	}
	r, err := warp.LoadRaster(out)
	if err != nil {
		t.Fatalf("LoadRaster: %v", err)
	}
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("reflection output = %dx%d, want 4x3", r.Width(), r.Height())
	}
}

func TestRun_Failures(t *testing.T) {
	restoreLoggers(t)
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"--bogus"}, 2},
		{"missing output", []string{"-i", in}, 1},
		{"unknown mode", []string{"-i", in, "-o", out, "--mode", "twirl"}, 1},
		{"singular", []string{"-i", in, "-o", out, "--sx", "0"}, 1},
		{"matrix and compose", []string{"-i", in, "-o", out, "--angle", "5", "--matrix", "1,0,0,0,1,0,0,0,1"}, 1},
		{"short matrix", []string{"-i", in, "-o", out, "--matrix", "1,0,0"}, 1},
		{"missing config", []string{"--config", filepath.Join(dir, "absent.yaml")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := run(context.Background(), tt.args, &stderr); got != tt.want {
				t.Errorf("exit = %d, want %d; stderr:\n%s", got, tt.want, stderr.String())
			}
		})
	}
}

func TestRun_Batch(t *testing.T) {
	restoreLoggers(t)
	dir := t.TempDir()
	writeInput(t, dir)
	cfg := filepath.Join(dir, "jobs.yaml")
	body := `schema_version: v1
input: in.png
output_dir: out
format: png
jobs:
  - {name: rot, mode: rotation, compose: {angle: 30}}
  - {name: bad, mode: affine, matrix: [0, 0, 0, 0, 0, 0, 0, 0, 0]}
`
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	report := filepath.Join(dir, "report.yaml")
	metrics := filepath.Join(dir, "imgwarp.prom")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfg, "--report", report, "--metrics-file", metrics}, &stderr)
	if code != 1 {
		t.Fatalf("exit = %d, want 1 for a failing job; stderr:\n%s", code, stderr.String())
	}

	for _, p := range []string{
		filepath.Join(dir, "out", "input.png"),
		filepath.Join(dir, "out", "rot.png"),
		report,
		metrics,
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	data, _ := os.ReadFile(metrics)
	if !strings.Contains(string(data), `imgwarp_failures_total{kind="singular",mode="affine"} 1`) {
		t.Errorf("metrics file lacks the singular failure:\n%s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
