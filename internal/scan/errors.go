package scan

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrProbeUnavailable marks a missing probe tool, detected before any
// filesystem work starts.
var ErrProbeUnavailable = errors.New("probe tool unavailable")

// Preflight confirms the probe binary resolves before a scan begins.
// Per-file probe failures only degrade individual records; a missing binary
// fails the whole run up front.
func Preflight(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%w: %s (install FFmpeg or update the probe configuration)", ErrProbeUnavailable, binary)
	}
	return nil
}
