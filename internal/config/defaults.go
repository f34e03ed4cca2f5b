package config

const (
	defaultProbeTimeoutSeconds = 30

	defaultSizeFloorMB = 600

	defaultBitrateFloorKbps  = 9200
	defaultSavingsFloorMB    = 234
	defaultTargetBitrateKbps = 5600
	defaultOrder             = "savings"
	defaultPercentilePool    = "filtered"

	defaultBlackMinDuration  = 0.5
	defaultPictureThreshold  = 0.98
	defaultPixelThreshold    = 0.2
	defaultSceneMinSeconds   = 300
	defaultIntroLimitSeconds = 180

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultExtensions() []string {
	return []string{"mp4", "mkv", "avi", "mov"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Scan: Scan{
			Extensions:  defaultExtensions(),
			SizeFloorMB: defaultSizeFloorMB,
		},
		Selection: Selection{
			BitrateFloorKbps:  defaultBitrateFloorKbps,
			SavingsFloorMB:    defaultSavingsFloorMB,
			TargetBitrateKbps: defaultTargetBitrateKbps,
			Order:             defaultOrder,
			PercentilePool:    defaultPercentilePool,
		},
		Split: Split{
			BlackMinDuration:  defaultBlackMinDuration,
			PictureThreshold:  defaultPictureThreshold,
			PixelThreshold:    defaultPixelThreshold,
			SceneMinSeconds:   defaultSceneMinSeconds,
			IntroLimitSeconds: defaultIntroLimitSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
