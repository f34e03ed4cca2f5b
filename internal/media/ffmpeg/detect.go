package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// BlackInterval is one black transition reported by the blackdetect filter.
type BlackInterval struct {
	Start float64
	End   float64
}

// Midpoint returns the center of the interval.
func (b BlackInterval) Midpoint() float64 {
	return (b.Start + b.End) / 2
}

// DetectOptions tunes the blackdetect filter.
type DetectOptions struct {
	// MinDuration is the shortest run of black, in seconds, worth reporting.
	MinDuration float64
	// PictureThreshold is the fraction of pixels that must be black for the
	// frame to count, 0 to 1.
	PictureThreshold float64
	// PixelThreshold is the brightness ceiling for a pixel to count as
	// black, 0 to 1.
	PixelThreshold float64
}

var blackPattern = regexp.MustCompile(`black_start:(\d+(?:\.\d+)?).*?black_end:(\d+(?:\.\d+)?)`)

// DetectBlackIntervals decodes the file once with the blackdetect filter and
// returns the reported intervals sorted by start time. Audio is dropped and
// the decoded video discarded, so the pass costs one decode and no disk.
func (c *Client) DetectBlackIntervals(ctx context.Context, path string, opts DetectOptions) ([]BlackInterval, error) {
	if path == "" {
		return nil, errors.New("blackdetect: empty path")
	}
	filter := fmt.Sprintf("blackdetect=d=%s:pic_th=%s:pix_th=%s",
		formatSeconds(opts.MinDuration),
		formatSeconds(opts.PictureThreshold),
		formatSeconds(opts.PixelThreshold))
	args := []string{"-i", path, "-vf", filter, "-an", "-f", "rawvideo", "-y", os.DevNull}

	var lines []string
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		lines = append(lines, line)
	}); err != nil {
		return nil, fmt.Errorf("blackdetect: %w", err)
	}
	return ParseBlackIntervals(lines), nil
}

// ParseBlackIntervals extracts black transitions from blackdetect filter
// output lines, sorted by start time. Lines without a start/end pair are
// ignored, which skips the banner and progress chatter ffmpeg mixes in.
func ParseBlackIntervals(lines []string) []BlackInterval {
	var intervals []BlackInterval
	for _, line := range lines {
		for _, match := range blackPattern.FindAllStringSubmatch(line, -1) {
			start, err := strconv.ParseFloat(match[1], 64)
			if err != nil {
				continue
			}
			end, err := strconv.ParseFloat(match[2], 64)
			if err != nil {
				continue
			}
			intervals = append(intervals, BlackInterval{Start: start, End: end})
		}
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})
	return intervals
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
