package scan_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"winnow/internal/scan"
	"winnow/internal/testsupport"
	"winnow/internal/triage"
)

const mib = 1024 * 1024

type fakeSource struct {
	mu    sync.Mutex
	rates map[string]int64
	errs  map[string]error
	calls []string

	inFlight    int
	maxInFlight int
	delay       time.Duration
	delays      map[string]time.Duration
}

func (f *fakeSource) BitrateKbps(ctx context.Context, path string) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	base := filepath.Base(path)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if d, ok := f.delays[base]; ok {
		time.Sleep(d)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.errs[base]; ok {
		return 0, err
	}
	if rate, ok := f.rates[base]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("no fixture rate for %s", base)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunBuildsCorpusInDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"a/alpha.mkv":  2 * mib,
		"b/beta.MP4":   3 * mib,
		"c/tiny.mkv":   256 * 1024,
		"d/clip.webm":  2 * mib,
		"notes.txt":    2 * mib,
		"e/gamma.avi":  2 * mib,
		"f/delta.mov":  2 * mib,
		"g/nested.mkv": 2 * mib,
	})

	source := &fakeSource{rates: map[string]int64{
		"alpha.mkv":  12000,
		"beta.MP4":   9800,
		"gamma.avi":  7000,
		"delta.mov":  6400,
		"nested.mkv": 3000,
	}}

	result, err := scan.Run(context.Background(), scan.Options{
		Root:           root,
		SizeFloorBytes: mib,
		TargetKbps:     5600,
		Source:         source,
		Workers:        3,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var paths []string
	for _, rec := range result.Records {
		paths = append(paths, rec.Path)
	}
	wantPaths := []string{"a/alpha.mkv", "b/beta.MP4", "e/gamma.avi", "f/delta.mov", "g/nested.mkv"}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Fatalf("corpus order mismatch (-want +got):\n%s", diff)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}

	first := result.Records[0]
	if first.BitrateKbps != 12000 || first.SizeBytes != 2*mib {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.SavingsMB != triage.EstimateSavingsMB(12000, 2*mib, 5600) {
		t.Fatalf("savings not derived from record inputs: %+v", first)
	}
}

func TestRunSkipsFilesBelowSizeFloorWithoutProbing(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"big.mkv":   2 * mib,
		"small.mkv": 100 * 1024,
	})

	source := &fakeSource{rates: map[string]int64{"big.mkv": 9800}}
	result, err := scan.Run(context.Background(), scan.Options{
		Root:           root,
		SizeFloorBytes: mib,
		TargetKbps:     5600,
		Source:         source,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Path != "big.mkv" {
		t.Fatalf("unexpected corpus: %+v", result.Records)
	}
	if source.callCount() != 1 {
		t.Fatalf("size-floored file was probed: calls=%v", source.calls)
	}
}

func TestRunKeepsDegradedRecordOnProbeFailure(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"good.mkv":   2 * mib,
		"broken.avi": 2 * mib,
	})

	source := &fakeSource{
		rates: map[string]int64{"good.mkv": 9800},
		errs:  map[string]error{"broken.avi": errors.New("moov atom not found")},
	}
	result, err := scan.Run(context.Background(), scan.Options{
		Root:       root,
		TargetKbps: 5600,
		Source:     source,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("expected both files in corpus, got %d", len(result.Records))
	}
	degraded := result.Records[0]
	if degraded.Path != "broken.avi" {
		t.Fatalf("unexpected order: %+v", result.Records)
	}
	if !degraded.Degraded() || degraded.SavingsMB != 0 {
		t.Fatalf("expected degraded record, got %+v", degraded)
	}
	if degraded.SizeBytes != 2*mib {
		t.Fatalf("degraded record lost its size: %+v", degraded)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if result.Warnings[0].Path != "broken.avi" {
		t.Fatalf("warning names wrong path: %+v", result.Warnings[0])
	}
}

func TestRunCollectsWarningsInDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"a/bad1.avi": 2 * mib,
		"b/good.mkv": 2 * mib,
		"c/bad2.avi": 2 * mib,
		"d/bad3.avi": 2 * mib,
	})

	// Earlier files sleep longer, so probe completion runs opposite to
	// discovery and any completion-order collection would come out reversed.
	source := &fakeSource{
		rates: map[string]int64{"good.mkv": 9800},
		errs: map[string]error{
			"bad1.avi": errors.New("no container"),
			"bad2.avi": errors.New("no container"),
			"bad3.avi": errors.New("no container"),
		},
		delays: map[string]time.Duration{
			"bad1.avi": 60 * time.Millisecond,
			"bad2.avi": 30 * time.Millisecond,
		},
	}

	result, err := scan.Run(context.Background(), scan.Options{
		Root:       root,
		TargetKbps: 5600,
		Source:     source,
		Workers:    4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var paths []string
	for _, w := range result.Warnings {
		paths = append(paths, w.Path)
	}
	want := []string{"a/bad1.avi", "c/bad2.avi", "d/bad3.avi"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("warning order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunEmptyCorpusIsNotAnError(t *testing.T) {
	result, err := scan.Run(context.Background(), scan.Options{
		Root:       t.TempDir(),
		TargetKbps: 5600,
		Source:     &fakeSource{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRunMissingRootFails(t *testing.T) {
	_, err := scan.Run(context.Background(), scan.Options{
		Root:       filepath.Join(t.TempDir(), "nope"),
		TargetKbps: 5600,
		Source:     &fakeSource{},
	})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRunRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "movie.mkv")
	testsupport.WriteFile(t, file, 1024)

	_, err := scan.Run(context.Background(), scan.Options{
		Root:       file,
		TargetKbps: 5600,
		Source:     &fakeSource{},
	})
	if err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestRunRequiresSource(t *testing.T) {
	if _, err := scan.Run(context.Background(), scan.Options{Root: t.TempDir()}); err == nil {
		t.Fatal("expected error without metric source")
	}
}

func TestRunReportsProgress(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"a.mkv": 2 * mib,
		"b.mkv": 2 * mib,
		"c.mkv": 2 * mib,
	})

	source := &fakeSource{rates: map[string]int64{
		"a.mkv": 9000,
		"b.mkv": 8000,
		"c.mkv": 7000,
	}}

	var mu sync.Mutex
	var events []scan.Progress
	_, err := scan.Run(context.Background(), scan.Options{
		Root:       root,
		TargetKbps: 5600,
		Source:     source,
		Workers:    2,
		OnProgress: func(p scan.Progress) {
			mu.Lock()
			events = append(events, p)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(events))
	}
	seenDone := map[int]bool{}
	for _, ev := range events {
		if ev.Total != 3 {
			t.Fatalf("unexpected total in %+v", ev)
		}
		if ev.Degraded {
			t.Fatalf("unexpected degraded flag in %+v", ev)
		}
		seenDone[ev.Done] = true
	}
	for i := 1; i <= 3; i++ {
		if !seenDone[i] {
			t.Fatalf("missing done count %d in %+v", i, events)
		}
	}
}

func TestRunBoundsWorkerPool(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"a.mkv": 2 * mib,
		"b.mkv": 2 * mib,
		"c.mkv": 2 * mib,
		"d.mkv": 2 * mib,
	})

	source := &fakeSource{
		rates: map[string]int64{"a.mkv": 1, "b.mkv": 1, "c.mkv": 1, "d.mkv": 1},
		delay: 5 * time.Millisecond,
	}
	_, err := scan.Run(context.Background(), scan.Options{
		Root:       root,
		TargetKbps: 5600,
		Source:     source,
		Workers:    1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if source.maxInFlight != 1 {
		t.Fatalf("expected serialized probes, saw %d in flight", source.maxInFlight)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{"a.mkv": 2 * mib})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scan.Run(ctx, scan.Options{
		Root:       root,
		TargetKbps: 5600,
		Source:     &fakeSource{rates: map[string]int64{"a.mkv": 9000}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// Wiring check: a scanned corpus feeds straight into selection with the
// documented default floors.
func TestRunFeedsSelection(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]int64{
		"keep.mkv":  2 * mib,
		"lean.mkv":  2 * mib,
		"small.mkv": 100 * 1024,
	})

	source := &fakeSource{rates: map[string]int64{
		"keep.mkv": 12000,
		"lean.mkv": 5000,
	}}
	result, err := scan.Run(context.Background(), scan.Options{
		Root:           root,
		SizeFloorBytes: mib,
		TargetKbps:     5600,
		Source:         source,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected two corpus records, got %+v", result.Records)
	}

	selected := triage.Select(result.Records, triage.Criteria{
		Mode:              triage.ModeThreshold,
		BitrateFloorKbps:  9200,
		SavingsFloorMB:    1,
		TargetBitrateKbps: 5600,
		Order:             triage.OrderSavings,
	})
	if len(selected) != 1 || selected[0].Path != "keep.mkv" {
		t.Fatalf("unexpected selection: %+v", selected)
	}
}

func TestPreflightResolvesStubbedBinary(t *testing.T) {
	testsupport.StubBinaries(t, "ffprobe")
	if err := scan.Preflight("ffprobe"); err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
}

func TestPreflightReportsMissingBinary(t *testing.T) {
	err := scan.Preflight("definitely-not-an-ffprobe")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, scan.ErrProbeUnavailable) {
		t.Fatalf("expected ErrProbeUnavailable, got %v", err)
	}
}
