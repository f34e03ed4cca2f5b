package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeSelection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScanRoot) != "" {
		if c.Paths.ScanRoot, err = expandPath(c.Paths.ScanRoot); err != nil {
			return fmt.Errorf("paths.scan_root: %w", err)
		}
	} else {
		c.Paths.ScanRoot = ""
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	} else {
		c.Paths.LogDir = ""
	}
	return nil
}

func (c *Config) normalizeScan() {
	cleaned := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}
		cleaned = append(cleaned, ext)
	}
	if len(cleaned) == 0 {
		cleaned = defaultExtensions()
	}
	c.Scan.Extensions = cleaned
}

func (c *Config) normalizeSelection() {
	c.Selection.Order = strings.ToLower(strings.TrimSpace(c.Selection.Order))
	if c.Selection.Order == "" {
		c.Selection.Order = defaultOrder
	}
	c.Selection.PercentilePool = strings.ToLower(strings.TrimSpace(c.Selection.PercentilePool))
	if c.Selection.PercentilePool == "" {
		c.Selection.PercentilePool = defaultPercentilePool
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
