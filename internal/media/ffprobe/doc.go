// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs one container-level probe and decodes it into Result, whose
// helpers expose the fields winnow ranks on: container bitrate, duration,
// size, and stream counts. Keyframes lists keyframe timestamps for the
// scene-split planner without decoding full frames.
//
// The package knows nothing about selection or splitting policy, so it could
// move to a standalone library if another tool ever needs it.
package ffprobe
