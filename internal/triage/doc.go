// Package triage implements the selection-and-ranking engine that decides
// which scanned video files are worth re-encoding.
//
// The engine operates on an immutable corpus of FileRecord values produced by
// a single scan and never mutates shared state: every stage returns a fresh
// slice. Selection composes from three pure transforms:
//   - SelectThreshold: keep records meeting the bitrate and savings floors
//   - SelectPercentile: keep the top fraction of records by the order metric
//   - Combine: merge the two selections according to the active Mode
//
// Rank orders a final selection by bitrate or estimated savings, descending,
// with ascending-path tie-breaking so repeated runs over an unchanged corpus
// produce byte-identical output.
package triage
