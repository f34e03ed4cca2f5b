package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the complete winnow configuration.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Probe     Probe     `toml:"probe"`
	Scan      Scan      `toml:"scan"`
	Selection Selection `toml:"selection"`
	Split     Split     `toml:"split"`
	Logging   Logging   `toml:"logging"`
}

// Paths contains directory configuration.
type Paths struct {
	// ScanRoot is the default library root when the scan command gets no
	// positional argument.
	ScanRoot string `toml:"scan_root"`
	// LogDir, when set, receives an appended winnow.log alongside console
	// output.
	LogDir string `toml:"log_dir"`
}

// Probe contains external tool configuration.
type Probe struct {
	FFprobeBinary  string `toml:"ffprobe_binary"`
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// Workers bounds the probe pool; zero means one worker per CPU.
	Workers int `toml:"workers"`
}

// Scan contains corpus-building gates.
type Scan struct {
	Extensions  []string `toml:"extensions"`
	SizeFloorMB int64    `toml:"size_floor_mb"`
}

// Selection contains the default selection criteria.
type Selection struct {
	BitrateFloorKbps  int64  `toml:"bitrate_floor_kbps"`
	SavingsFloorMB    int64  `toml:"savings_floor_mb"`
	TargetBitrateKbps int64  `toml:"target_bitrate_kbps"`
	Order             string `toml:"order"`
	PercentilePool    string `toml:"percentile_pool"`
}

// Split contains scene-split tuning.
type Split struct {
	BlackMinDuration  float64 `toml:"black_min_duration"`
	PictureThreshold  float64 `toml:"picture_threshold"`
	PixelThreshold    float64 `toml:"pixel_threshold"`
	SceneMinSeconds   float64 `toml:"scene_min_seconds"`
	IntroLimitSeconds float64 `toml:"intro_limit_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfigPath returns the expanded per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/winnow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("winnow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories winnow writes to.
func (c *Config) EnsureDirectories() error {
	if c.Paths.LogDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", c.Paths.LogDir, err)
	}
	return nil
}

// FFprobeBinary returns the configured ffprobe path or the bare binary name.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Probe.FFprobeBinary); binary != "" {
		return binary
	}
	return "ffprobe"
}

// FFmpegBinary returns the configured ffmpeg path or the bare binary name.
func (c *Config) FFmpegBinary() string {
	if binary := strings.TrimSpace(c.Probe.FFmpegBinary); binary != "" {
		return binary
	}
	return "ffmpeg"
}

// SizeFloorBytes converts the configured megabyte floor to bytes.
func (c *Config) SizeFloorBytes() int64 {
	return c.Scan.SizeFloorMB * 1024 * 1024
}

// ProbeTimeout returns the per-file probe time limit; zero means unbounded.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}

// LogFilePath returns the log file destination, or empty when file logging
// is disabled.
func (c *Config) LogFilePath() string {
	if c.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "winnow.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
