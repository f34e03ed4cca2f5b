// Package scan walks a library root and builds the corpus of candidate
// video files, probing each one for its container bitrate.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"winnow/internal/logging"
	"winnow/internal/triage"
)

// MetricSource fetches the container bitrate for one file. Implementations
// must be safe for concurrent use.
type MetricSource interface {
	BitrateKbps(ctx context.Context, path string) (int64, error)
}

// Progress reports one completed probe for interactive display.
type Progress struct {
	// Path is the probed file, slash-relative to the scan root.
	Path string
	// Done counts completed probes including this one; Total is the number
	// of accepted candidates.
	Done     int
	Total    int
	Degraded bool
}

// Warning records a non-fatal per-file failure. The scan continues past
// these; the file stays in the corpus as a degraded record.
type Warning struct {
	Path string
	Err  error
}

// Options configures a scan run.
type Options struct {
	// Root is the directory to walk recursively.
	Root string
	// SizeFloorBytes excludes files below this size before probing.
	SizeFloorBytes int64
	// TargetKbps is the re-encode target used for the savings estimate.
	TargetKbps int64
	// Extensions lists accepted extensions without the leading dot. Empty
	// means the default video set.
	Extensions []string
	// Workers bounds the probe pool. Zero or negative means one worker
	// per CPU.
	Workers int
	// ProbeTimeout bounds each metric fetch. Zero means no per-file limit.
	ProbeTimeout time.Duration
	// Source fetches bitrates; required.
	Source MetricSource
	// OnProgress, when set, receives one event per completed probe. Calls
	// are serialized.
	OnProgress func(Progress)

	Logger *slog.Logger
}

// Result is the corpus a scan produced, in discovery order.
type Result struct {
	Records  []triage.FileRecord
	Warnings []Warning
}

// DefaultExtensions is the accepted set when no override is configured.
var DefaultExtensions = []string{"mp4", "mkv", "avi", "mov"}

type candidate struct {
	rel  string
	size int64
}

// Run walks the root, applies the extension and size gates, and probes every
// accepted file through a bounded worker pool. Records come back in
// discovery order regardless of probe completion order, so repeated runs
// over an unchanged tree produce identical corpora.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Source == nil {
		return Result{}, errors.New("scan: metric source required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	root := strings.TrimSpace(opts.Root)
	if root == "" {
		return Result{}, errors.New("scan: root directory required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("scan root %s is not a directory", root)
	}

	accepted := extensionSet(opts.Extensions)

	var (
		candidates []candidate
		warnings   []Warning
	)
	walkErr := fs.WalkDir(os.DirFS(root), ".", func(rel string, entry fs.DirEntry, err error) error {
		if err != nil {
			if rel == "." {
				return err
			}
			warnings = append(warnings, Warning{Path: rel, Err: err})
			logger.Warn("skipping unreadable path", logging.String("path", rel), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(rel)), ".")
		if _, ok := accepted[ext]; !ok {
			return nil
		}
		fileInfo, err := entry.Info()
		if err != nil {
			warnings = append(warnings, Warning{Path: rel, Err: err})
			logger.Warn("stat failed", logging.String("path", rel), logging.Error(err))
			return nil
		}
		if fileInfo.Size() < opts.SizeFloorBytes {
			return nil
		}
		candidates = append(candidates, candidate{rel: rel, size: fileInfo.Size()})
		return nil
	})
	if walkErr != nil {
		return Result{}, fmt.Errorf("scan walk: %w", walkErr)
	}

	records := make([]triage.FileRecord, len(candidates))
	probeErrs := make([]error, len(candidates))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) && len(candidates) > 0 {
		workers = len(candidates)
	}

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)
	jobs := make(chan int)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				cand := candidates[idx]
				kbps, probeErr := probe(ctx, opts, filepath.Join(root, filepath.FromSlash(cand.rel)))
				if probeErr != nil {
					kbps = 0
				}
				records[idx] = triage.NewRecord(cand.rel, kbps, cand.size, opts.TargetKbps)
				probeErrs[idx] = probeErr

				mu.Lock()
				done++
				if opts.OnProgress != nil {
					opts.OnProgress(Progress{
						Path:     cand.rel,
						Done:     done,
						Total:    len(candidates),
						Degraded: probeErr != nil,
					})
				}
				mu.Unlock()

				if probeErr != nil {
					logger.Warn("probe failed, keeping degraded record",
						logging.String("path", cand.rel),
						logging.Error(probeErr))
				}
			}
		}()
	}

feed:
	for idx := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	// Probe warnings are collected per index so they surface in discovery
	// order even though probes finish out of order.
	for idx, probeErr := range probeErrs {
		if probeErr != nil {
			warnings = append(warnings, Warning{Path: candidates[idx].rel, Err: probeErr})
		}
	}
	return Result{Records: records, Warnings: warnings}, nil
}

func probe(ctx context.Context, opts Options, fullPath string) (int64, error) {
	probeCtx := ctx
	if opts.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, opts.ProbeTimeout)
		defer cancel()
	}
	return opts.Source.BitrateKbps(probeCtx, fullPath)
}

func extensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		cleaned := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if cleaned == "" {
			continue
		}
		set[cleaned] = struct{}{}
	}
	return set
}
