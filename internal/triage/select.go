package triage

import (
	"math"
	"sort"
)

// Select runs the full pipeline over a scanned corpus: selector(s) per the
// criteria mode, combination, and final ranking. The corpus slice is never
// modified; the returned slice is freshly allocated.
func Select(corpus []FileRecord, c Criteria) []FileRecord {
	switch c.Mode {
	case ModePercentile:
		return Rank(SelectPercentile(corpus, c), c.Order)
	case ModeCompound:
		threshold := SelectThreshold(corpus, c)
		percentile := SelectPercentile(corpus, c)
		return Rank(Combine(c.Mode, threshold, percentile), c.Order)
	default:
		return Rank(SelectThreshold(corpus, c), c.Order)
	}
}

// SelectThreshold keeps records whose bitrate and estimated savings both meet
// the configured floors. The scanner has already applied the size floor, so
// the corpus handed in is the full floor universe.
func SelectThreshold(corpus []FileRecord, c Criteria) []FileRecord {
	out := make([]FileRecord, 0, len(corpus))
	for _, rec := range corpus {
		if rec.BitrateKbps < c.BitrateFloorKbps {
			continue
		}
		if rec.SavingsMB < c.SavingsFloorMB {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SelectPercentile keeps the top TopFraction of its pool, ranked by the order
// metric. In compound mode with PoolFiltered the pool is the floor-passing
// subset, so the denominator matches "top N% among files that already pass
// the threshold"; otherwise the pool is the whole corpus. Degraded records
// widen the denominator but are never selectable, so a pool of mostly
// unreadable files cannot promote one into the output.
func SelectPercentile(corpus []FileRecord, c Criteria) []FileRecord {
	pool := corpus
	if c.Mode == ModeCompound && c.Pool == PoolFiltered {
		pool = SelectThreshold(corpus, c)
	}
	if len(pool) == 0 {
		return nil
	}
	viable := make([]FileRecord, 0, len(pool))
	for _, rec := range pool {
		if rec.Degraded() {
			continue
		}
		viable = append(viable, rec)
	}
	if len(viable) == 0 {
		return nil
	}
	ranked := Rank(viable, c.Order)
	n := TopCount(len(pool), c.TopFraction)
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n:n]
}

// TopCount converts a fraction of a corpus into a retained count: rounded
// half up, and never below one so a requested percentile always selects
// something from a non-empty pool.
func TopCount(total int, fraction float64) int {
	n := int(math.Floor(float64(total)*fraction + 0.5))
	if n < 1 {
		n = 1
	}
	return n
}

// Combine merges the selector outputs for the active mode. Compound mode is
// an intersection keyed by path; the percentile side's records are kept,
// which is indistinguishable from keeping the threshold side's because both
// views share the same immutable corpus entries.
func Combine(mode Mode, threshold, percentile []FileRecord) []FileRecord {
	switch mode {
	case ModeThreshold:
		return threshold
	case ModePercentile:
		return percentile
	}
	keep := make(map[string]struct{}, len(threshold))
	for _, rec := range threshold {
		keep[rec.Path] = struct{}{}
	}
	out := make([]FileRecord, 0, len(percentile))
	for _, rec := range percentile {
		if _, ok := keep[rec.Path]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Rank orders records by the given metric, descending, breaking ties by
// ascending path. It always returns a copy so callers can ranked-slice a
// corpus without disturbing discovery order.
func Rank(records []FileRecord, order Order) []FileRecord {
	out := make([]FileRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].metric(order), out[j].metric(order)
		if a != b {
			return a > b
		}
		return out[i].Path < out[j].Path
	})
	return out
}
