package deps

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"winnow/internal/config"
)

var versionPattern = regexp.MustCompile(`version\s+(\S+)`)

// Requirements lists the external tools a configuration depends on.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Bitrate and keyframe probing",
		},
		{
			Name:        "ffmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Black frame detection and stream copy cuts",
		},
	}
}

// Version reports the version an ffmpeg family binary prints in its banner
// line, falling back to the whole line when it has an unexpected shape.
func Version(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s -version: %w", binary, err)
	}
	line := string(out)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s printed no version banner", binary)
	}
	if m := versionPattern.FindStringSubmatch(line); m != nil {
		return m[1], nil
	}
	return line, nil
}
