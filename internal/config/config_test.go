package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"winnow/internal/config"
)

func TestLoadDefaultsWhenConfigMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantResolved := filepath.Join(tempHome, ".config", "winnow", "config.toml")
	if resolved != wantResolved {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantResolved)
	}

	if cfg.Probe.TimeoutSeconds != 30 {
		t.Fatalf("unexpected probe timeout: %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Scan.SizeFloorMB != 600 {
		t.Fatalf("unexpected size floor: %d", cfg.Scan.SizeFloorMB)
	}
	if len(cfg.Scan.Extensions) == 0 || cfg.Scan.Extensions[0] != "mp4" {
		t.Fatalf("unexpected extensions: %v", cfg.Scan.Extensions)
	}
	if cfg.Selection.BitrateFloorKbps != 9200 {
		t.Fatalf("unexpected bitrate floor: %d", cfg.Selection.BitrateFloorKbps)
	}
	if cfg.Selection.SavingsFloorMB != 234 {
		t.Fatalf("unexpected savings floor: %d", cfg.Selection.SavingsFloorMB)
	}
	if cfg.Selection.TargetBitrateKbps != 5600 {
		t.Fatalf("unexpected target bitrate: %d", cfg.Selection.TargetBitrateKbps)
	}
	if cfg.Selection.Order != "savings" {
		t.Fatalf("unexpected order: %q", cfg.Selection.Order)
	}
	if cfg.Selection.PercentilePool != "filtered" {
		t.Fatalf("unexpected percentile pool: %q", cfg.Selection.PercentilePool)
	}
	if cfg.Split.BlackMinDuration != 0.5 {
		t.Fatalf("unexpected black min duration: %v", cfg.Split.BlackMinDuration)
	}
	if cfg.Split.SceneMinSeconds != 300 {
		t.Fatalf("unexpected scene minimum: %v", cfg.Split.SceneMinSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.ProbeTimeout() != 30*time.Second {
		t.Fatalf("unexpected probe timeout duration: %v", cfg.ProbeTimeout())
	}
	if cfg.SizeFloorBytes() != 600*1024*1024 {
		t.Fatalf("unexpected size floor bytes: %d", cfg.SizeFloorBytes())
	}
	if cfg.LogFilePath() != "" {
		t.Fatalf("expected empty log file path, got %q", cfg.LogFilePath())
	}

	cfg.Paths.LogDir = filepath.Join(tempHome, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("expected log directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be a directory", cfg.Paths.LogDir)
	}
	if cfg.LogFilePath() != filepath.Join(cfg.Paths.LogDir, "winnow.log") {
		t.Fatalf("unexpected log file path: %q", cfg.LogFilePath())
	}
}

func TestLoadCustomPathAppliesOverridesAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "winnow.toml")

	type payload struct {
		Paths struct {
			ScanRoot string `toml:"scan_root"`
		} `toml:"paths"`
		Probe struct {
			FFprobeBinary  string `toml:"ffprobe_binary"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
			Workers        int    `toml:"workers"`
		} `toml:"probe"`
		Scan struct {
			Extensions  []string `toml:"extensions"`
			SizeFloorMB int64    `toml:"size_floor_mb"`
		} `toml:"scan"`
		Selection struct {
			TargetBitrateKbps int64  `toml:"target_bitrate_kbps"`
			Order             string `toml:"order"`
			PercentilePool    string `toml:"percentile_pool"`
		} `toml:"selection"`
	}
	custom := payload{}
	custom.Paths.ScanRoot = "~/library"
	custom.Probe.FFprobeBinary = "/opt/ffmpeg/bin/ffprobe"
	custom.Probe.TimeoutSeconds = 5
	custom.Probe.Workers = 2
	custom.Scan.Extensions = []string{".MKV", " mp4 ", ""}
	custom.Scan.SizeFloorMB = 100
	custom.Selection.TargetBitrateKbps = 4500
	custom.Selection.Order = "BITRATE"
	custom.Selection.PercentilePool = "Corpus"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.ScanRoot != filepath.Join(tempHome, "library") {
		t.Fatalf("expected scan root to expand, got %q", cfg.Paths.ScanRoot)
	}
	if cfg.FFprobeBinary() != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.ProbeTimeout() != 5*time.Second {
		t.Fatalf("unexpected probe timeout: %v", cfg.ProbeTimeout())
	}
	if cfg.Probe.Workers != 2 {
		t.Fatalf("unexpected workers: %d", cfg.Probe.Workers)
	}
	if len(cfg.Scan.Extensions) != 2 || cfg.Scan.Extensions[0] != "mkv" || cfg.Scan.Extensions[1] != "mp4" {
		t.Fatalf("expected cleaned extensions, got %v", cfg.Scan.Extensions)
	}
	if cfg.Scan.SizeFloorMB != 100 {
		t.Fatalf("unexpected size floor: %d", cfg.Scan.SizeFloorMB)
	}
	if cfg.Selection.TargetBitrateKbps != 4500 {
		t.Fatalf("unexpected target bitrate: %d", cfg.Selection.TargetBitrateKbps)
	}
	if cfg.Selection.Order != "bitrate" {
		t.Fatalf("expected lowercased order, got %q", cfg.Selection.Order)
	}
	if cfg.Selection.PercentilePool != "corpus" {
		t.Fatalf("expected lowercased pool, got %q", cfg.Selection.PercentilePool)
	}
	if cfg.Selection.BitrateFloorKbps != 9200 {
		t.Fatalf("expected untouched keys to keep defaults, got %d", cfg.Selection.BitrateFloorKbps)
	}
}

func TestLoadFallsBackToProjectLocalFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	workDir := t.TempDir()
	t.Chdir(workDir)

	contents := "[scan]\nsize_floor_mb = 123\n"
	if err := os.WriteFile(filepath.Join(workDir, "winnow.toml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project-local config to be found")
	}
	if filepath.Base(resolved) != "winnow.toml" {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Scan.SizeFloorMB != 123 {
		t.Fatalf("expected project-local override, got %d", cfg.Scan.SizeFloorMB)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false for absent file")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Selection.TargetBitrateKbps != 5600 {
		t.Fatalf("expected defaults, got target %d", cfg.Selection.TargetBitrateKbps)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "unknown order",
			contents: "[selection]\norder = \"speed\"\n",
			wantErr:  "order",
		},
		{
			name:     "unknown pool",
			contents: "[selection]\npercentile_pool = \"everything\"\n",
			wantErr:  "percentile pool",
		},
		{
			name:     "zero target bitrate",
			contents: "[selection]\ntarget_bitrate_kbps = 0\n",
			wantErr:  "target_bitrate_kbps",
		},
		{
			name:     "picture threshold above one",
			contents: "[split]\npicture_threshold = 1.5\n",
			wantErr:  "picture_threshold",
		},
		{
			name:     "unknown log format",
			contents: "[logging]\nformat = \"xml\"\n",
			wantErr:  "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "winnow.toml")
			if err := os.WriteFile(configPath, []byte(tt.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(configPath)
			if err == nil {
				t.Fatal("expected Load to fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Probe.TimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative probe timeout")
	}

	cfg = config.Default()
	cfg.Probe.Workers = -2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative workers")
	}

	cfg = config.Default()
	cfg.Scan.SizeFloorMB = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative size floor")
	}

	cfg = config.Default()
	cfg.Selection.BitrateFloorKbps = -100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative bitrate floor")
	}

	cfg = config.Default()
	cfg.Split.BlackMinDuration = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero black duration")
	}

	cfg = config.Default()
	cfg.Split.SceneMinSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative scene minimum")
	}

	cfg = config.Default()
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, want := range []string{"[selection]", "bitrate_floor_kbps", "[split]", "black_min_duration"} {
		if !strings.Contains(string(contents), want) {
			t.Fatalf("sample config missing %q:\n%s", want, contents)
		}
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if loaded.Selection.BitrateFloorKbps != config.Default().Selection.BitrateFloorKbps {
		t.Fatalf("expected sample to mirror defaults, got %d", loaded.Selection.BitrateFloorKbps)
	}
	if loaded.Split.PictureThreshold != config.Default().Split.PictureThreshold {
		t.Fatalf("expected sample to mirror defaults, got %v", loaded.Split.PictureThreshold)
	}
}

func TestExpandPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(tempHome, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}

	got, err = config.ExpandPath("~")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != tempHome {
		t.Fatalf("expected bare tilde to resolve home, got %q", got)
	}
}
