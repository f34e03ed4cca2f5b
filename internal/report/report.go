// Package report renders selection results for terminals and scripts.
package report

import (
	"fmt"
	"strings"

	"winnow/internal/triage"
)

// Format selects how selection results are rendered.
type Format int

const (
	// FormatPlain prints one human-readable line per file.
	FormatPlain Format = iota
	// FormatKV prints one key=value line per file for scripting.
	FormatKV
	// FormatTable renders a bordered table with a summary footer.
	FormatTable
	// FormatJSON emits the full result document as indented JSON.
	FormatJSON
)

// ParseFormat maps a flag or config value onto a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "plain":
		return FormatPlain, nil
	case "kv":
		return FormatKV, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatPlain, fmt.Errorf("output format: unsupported value %q (want plain, kv, table, or json)", value)
	}
}

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatKV:
		return "kv"
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Summary aggregates a completed selection run.
type Summary struct {
	Root          string
	TargetKbps    int64
	Scanned       int
	Degraded      int
	Selected      int
	SelectedBytes int64
	// SavingsMB is the summed estimate across selected files. Entries with a
	// bitrate below the target contribute negative values.
	SavingsMB int64
}

// Summarize derives totals from the scanned corpus and the final selection.
func Summarize(root string, corpus, selected []triage.FileRecord, targetKbps int64) Summary {
	summary := Summary{
		Root:       root,
		TargetKbps: targetKbps,
		Scanned:    len(corpus),
		Selected:   len(selected),
	}
	for _, rec := range corpus {
		if rec.Degraded() {
			summary.Degraded++
		}
	}
	for _, rec := range selected {
		summary.SelectedBytes += rec.SizeBytes
		summary.SavingsMB += rec.SavingsMB
	}
	return summary
}
