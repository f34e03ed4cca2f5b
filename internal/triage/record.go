package triage

const bytesPerMB = 1024 * 1024

// FileRecord describes one scanned video file. Records are built once per
// discovered file and never modified afterwards; the savings estimate is
// derived from the same bitrate/size pair the record carries so selection and
// display can never drift apart.
type FileRecord struct {
	// Path is slash-separated and relative to the scan root.
	Path string
	// BitrateKbps is the measured container bitrate. Zero means the probe
	// failed and the record is degraded: it still counts toward percentile
	// denominators but can never pass a positive floor.
	BitrateKbps int64
	SizeBytes   int64
	// SavingsMB is the estimated size reduction from re-encoding at the
	// run's target bitrate. Negative when the file is already below target.
	SavingsMB int64
}

// NewRecord builds the immutable record for a discovered file, computing the
// savings estimate against the target bitrate.
func NewRecord(path string, bitrateKbps, sizeBytes, targetKbps int64) FileRecord {
	return FileRecord{
		Path:        path,
		BitrateKbps: bitrateKbps,
		SizeBytes:   sizeBytes,
		SavingsMB:   EstimateSavingsMB(bitrateKbps, sizeBytes, targetKbps),
	}
}

// SizeMB reports the file size in whole megabytes, floor-divided, which is
// the figure rendered in result output.
func (r FileRecord) SizeMB() int64 {
	return r.SizeBytes / bytesPerMB
}

// Degraded reports whether the record came from a failed metric fetch.
func (r FileRecord) Degraded() bool {
	return r.BitrateKbps == 0
}

func (r FileRecord) metric(order Order) int64 {
	if order == OrderSavings {
		return r.SavingsMB
	}
	return r.BitrateKbps
}

// EstimateSavingsMB estimates the size reduction, in whole megabytes, from
// re-encoding a file at targetKbps. A zero bitrate yields zero: the file is
// unmeasurable and must never look like a savings opportunity. The result is
// floored, so a file already below the target produces a negative value that
// no positive savings floor will accept.
func EstimateSavingsMB(bitrateKbps, sizeBytes, targetKbps int64) int64 {
	if bitrateKbps <= 0 {
		return 0
	}
	reclaimedBytes := floorDiv((bitrateKbps-targetKbps)*sizeBytes, bitrateKbps)
	return floorDiv(reclaimedBytes, bytesPerMB)
}

// floorDiv divides rounding toward negative infinity. Go's integer division
// truncates toward zero, which would round negative savings the wrong way.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
