package triage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks selection inputs that cannot describe a run.
// Callers classify with errors.Is to separate bad arguments from probe or
// filesystem failures.
var ErrInvalidArgument = errors.New("invalid argument")

// Mode selects which criteria participate in a run.
type Mode int

const (
	// ModeThreshold keeps files meeting the bitrate and savings floors.
	ModeThreshold Mode = iota
	// ModePercentile keeps the top fraction of the corpus by the order
	// metric; floors other than the scanner's size floor do not apply.
	ModePercentile
	// ModeCompound requires both: the percentile slice is taken among
	// files that also satisfy the floors.
	ModeCompound
)

// String returns the mode name used in logs and structured output.
func (m Mode) String() string {
	switch m {
	case ModePercentile:
		return "percentile"
	case ModeCompound:
		return "compound"
	default:
		return "threshold"
	}
}

// Order names the metric used for percentile ranking and final ordering.
type Order int

const (
	OrderBitrate Order = iota
	OrderSavings
)

func (o Order) String() string {
	if o == OrderSavings {
		return "savings"
	}
	return "bitrate"
}

// ParseOrder maps a CLI/config value onto an Order.
func ParseOrder(value string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "bitrate":
		return OrderBitrate, nil
	case "savings":
		return OrderSavings, nil
	default:
		return OrderBitrate, fmt.Errorf("%w: order %q (want bitrate or savings)", ErrInvalidArgument, value)
	}
}

// Pool chooses the percentile denominator in compound mode. The two readings
// produce different result sets, so the policy is an explicit knob rather
// than an inference.
type Pool int

const (
	// PoolFiltered computes "top N% among files that already pass the
	// floors": the denominator and the sort exclude floor failures.
	PoolFiltered Pool = iota
	// PoolCorpus computes "top N% of the whole size-filtered corpus" and
	// leaves floor enforcement to the combiner's intersection.
	PoolCorpus
)

func (p Pool) String() string {
	if p == PoolCorpus {
		return "corpus"
	}
	return "filtered"
}

// ParsePool maps a CLI/config value onto a Pool.
func ParsePool(value string) (Pool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "filtered", "":
		return PoolFiltered, nil
	case "corpus":
		return PoolCorpus, nil
	default:
		return PoolFiltered, fmt.Errorf("%w: percentile pool %q (want filtered or corpus)", ErrInvalidArgument, value)
	}
}

// Criteria carries every selection parameter for one run. Values are fixed
// before the corpus is scanned and never change afterwards.
type Criteria struct {
	Mode Mode

	// BitrateFloorKbps and SavingsFloorMB gate the threshold selector.
	// They are ignored entirely in percentile mode.
	BitrateFloorKbps int64
	SavingsFloorMB   int64

	// TargetBitrateKbps feeds the savings estimate baked into each record.
	TargetBitrateKbps int64

	// TopFraction is the retained slice in (0,1]; only read in percentile
	// and compound modes.
	TopFraction float64

	Order Order
	Pool  Pool
}

// Validate rejects criteria combinations that cannot describe a run.
func (c Criteria) Validate() error {
	if c.TargetBitrateKbps <= 0 {
		return fmt.Errorf("%w: criteria: target bitrate must be positive", ErrInvalidArgument)
	}
	if c.BitrateFloorKbps < 0 {
		return fmt.Errorf("%w: criteria: bitrate floor cannot be negative", ErrInvalidArgument)
	}
	switch c.Mode {
	case ModePercentile, ModeCompound:
		if c.TopFraction <= 0 || c.TopFraction > 1 {
			return fmt.Errorf("%w: criteria: top fraction %v outside (0,1]", ErrInvalidArgument, c.TopFraction)
		}
	}
	return nil
}
