package scenes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"winnow/internal/logging"
	"winnow/internal/media/ffmpeg"
	"winnow/internal/media/ffprobe"
)

// Prober abstracts the ffprobe lookups the splitter needs.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
	Keyframes(ctx context.Context, path string) ([]float64, error)
}

type binaryProber struct {
	binary string
}

func (p binaryProber) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, p.binary, path)
}

func (p binaryProber) Keyframes(ctx context.Context, path string) ([]float64, error) {
	return ffprobe.Keyframes(ctx, p.binary, path)
}

// SplitterOption configures the splitter.
type SplitterOption func(*Splitter)

// WithProber injects a custom prober (primarily for tests).
func WithProber(p Prober) SplitterOption {
	return func(s *Splitter) {
		if p != nil {
			s.prober = p
		}
	}
}

// Splitter cuts a video into sections at planned black transitions.
type Splitter struct {
	ffmpeg *ffmpeg.Client
	prober Prober
	logger *slog.Logger
}

// NewSplitter wires a splitter over the given ffmpeg client and ffprobe
// binary.
func NewSplitter(client *ffmpeg.Client, ffprobeBinary string, logger *slog.Logger, opts ...SplitterOption) (*Splitter, error) {
	if client == nil {
		return nil, errors.New("scenes: ffmpeg client required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	splitter := &Splitter{
		ffmpeg: client,
		prober: binaryProber{binary: ffprobeBinary},
		logger: logging.NewComponentLogger(logger, "splitter"),
	}
	for _, opt := range opts {
		opt(splitter)
	}
	return splitter, nil
}

// Request describes one split run.
type Request struct {
	Input   string
	DestDir string
	Detect  ffmpeg.DetectOptions
	Plan    PlanOptions
	// DryRun plans the cuts and reports them without writing anything.
	DryRun bool
}

// Output is a planned cut together with its destination file.
type Output struct {
	Cut
	Path string
}

// Split detects black transitions, plans the cut list, and stream-copies
// each section into the destination directory. The returned outputs reflect
// the plan even in dry-run mode.
func (s *Splitter) Split(ctx context.Context, req Request) ([]Output, error) {
	input := req.Input
	if input == "" {
		return nil, errors.New("split: input file required")
	}
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("split input: %w", err)
	}

	probe, err := s.prober.Inspect(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("inspect input: %w", err)
	}
	if probe.VideoStreamCount() == 0 {
		return nil, fmt.Errorf("split: %s has no video stream", input)
	}
	duration := probe.DurationSeconds()
	if duration <= 0 {
		return nil, fmt.Errorf("split: could not determine duration of %s", input)
	}

	s.logger.Info("detecting keyframes", logging.String("input", input))
	keyframes, err := s.prober.Keyframes(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect keyframes: %w", err)
	}
	if len(keyframes) == 0 {
		return nil, fmt.Errorf("split: no keyframes detected in %s", input)
	}

	s.logger.Info("detecting black transitions",
		logging.String("input", input),
		logging.Float64("min_duration", req.Detect.MinDuration))
	intervals, err := s.ffmpeg.DetectBlackIntervals(ctx, input, req.Detect)
	if err != nil {
		return nil, err
	}

	cuts := Plan(intervals, keyframes, duration, req.Plan)
	if len(cuts) == 0 {
		s.logger.Warn("nothing to split", logging.String("input", input))
		return nil, nil
	}

	destDir := req.DestDir
	if destDir == "" {
		destDir = filepath.Dir(input)
	}
	if !req.DryRun {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return nil, fmt.Errorf("create destination: %w", err)
		}
	}

	ext := filepath.Ext(input)
	outputs := make([]Output, 0, len(cuts))
	for _, cut := range cuts {
		out := Output{Cut: cut, Path: filepath.Join(destDir, cut.Label+ext)}
		outputs = append(outputs, out)

		s.logger.Info("writing section",
			logging.String("label", cut.Label),
			logging.Float64("start", cut.Start),
			logging.Float64("duration", cut.Duration),
			logging.Bool("dry_run", req.DryRun))
		if req.DryRun {
			continue
		}
		if err := s.ffmpeg.CopySection(ctx, input, cut.Start, cut.Duration, out.Path); err != nil {
			return outputs, fmt.Errorf("write %s: %w", cut.Label, err)
		}
	}
	return outputs, nil
}
