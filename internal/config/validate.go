package config

import (
	"fmt"

	"winnow/internal/triage"
)

// Validate rejects configurations that cannot describe a run.
func (c *Config) Validate() error {
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProbe() error {
	if c.Probe.TimeoutSeconds < 0 {
		return fmt.Errorf("probe.timeout_seconds must not be negative, got %d", c.Probe.TimeoutSeconds)
	}
	if c.Probe.Workers < 0 {
		return fmt.Errorf("probe.workers must not be negative, got %d", c.Probe.Workers)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.SizeFloorMB < 0 {
		return fmt.Errorf("scan.size_floor_mb must not be negative, got %d", c.Scan.SizeFloorMB)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.TargetBitrateKbps <= 0 {
		return fmt.Errorf("selection.target_bitrate_kbps must be positive, got %d", c.Selection.TargetBitrateKbps)
	}
	if c.Selection.BitrateFloorKbps < 0 {
		return fmt.Errorf("selection.bitrate_floor_kbps must not be negative, got %d", c.Selection.BitrateFloorKbps)
	}
	if _, err := triage.ParseOrder(c.Selection.Order); err != nil {
		return fmt.Errorf("selection.%w", err)
	}
	if _, err := triage.ParsePool(c.Selection.PercentilePool); err != nil {
		return fmt.Errorf("selection.%w", err)
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.BlackMinDuration <= 0 {
		return fmt.Errorf("split.black_min_duration must be positive, got %v", c.Split.BlackMinDuration)
	}
	if c.Split.PictureThreshold < 0 || c.Split.PictureThreshold > 1 {
		return fmt.Errorf("split.picture_threshold must be within [0,1], got %v", c.Split.PictureThreshold)
	}
	if c.Split.PixelThreshold < 0 || c.Split.PixelThreshold > 1 {
		return fmt.Errorf("split.pixel_threshold must be within [0,1], got %v", c.Split.PixelThreshold)
	}
	if c.Split.SceneMinSeconds <= 0 {
		return fmt.Errorf("split.scene_min_seconds must be positive, got %v", c.Split.SceneMinSeconds)
	}
	if c.Split.IntroLimitSeconds < 0 {
		return fmt.Errorf("split.intro_limit_seconds must not be negative, got %v", c.Split.IntroLimitSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
