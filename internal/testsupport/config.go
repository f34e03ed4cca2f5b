package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"winnow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The scan root exists and starts empty; options adjust the rest.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ScanRoot = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	if err := os.MkdirAll(cfgVal.Paths.ScanRoot, 0o755); err != nil {
		t.Fatalf("mkdir scan root: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithScanRoot points the config at an existing library root.
func WithScanRoot(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.ScanRoot = path
	}
}

// WithSizeFloorMB overrides the minimum file size considered by scans.
func WithSizeFloorMB(mb int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.SizeFloorMB = mb
	}
}

// WithStubbedBinaries writes stub executables for the provided names,
// prepends them to PATH, and points the probe binaries at the stubs. If
// names is empty, ffprobe and ffmpeg are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe", "ffmpeg"}
		}
		binDir := StubBinaries(b.t, names...)
		for _, name := range names {
			switch name {
			case "ffprobe":
				b.cfg.Probe.FFprobeBinary = filepath.Join(binDir, name)
			case "ffmpeg":
				b.cfg.Probe.FFmpegBinary = filepath.Join(binDir, name)
			}
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ScanRoot)
}
