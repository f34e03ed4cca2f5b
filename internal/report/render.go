package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"winnow/internal/triage"
)

// Renderer writes selection results in a fixed format. Plain and kv modes
// emit nothing beyond the per-file lines so output stays pipe friendly.
type Renderer struct {
	out     io.Writer
	format  Format
	printer *message.Printer
}

// NewRenderer returns a renderer targeting out.
func NewRenderer(out io.Writer, format Format) *Renderer {
	return &Renderer{
		out:     out,
		format:  format,
		printer: message.NewPrinter(language.English),
	}
}

// Render writes the ranked selection and, in table and json modes, the
// summary. Records must already be in final order.
func (r *Renderer) Render(records []triage.FileRecord, summary Summary) error {
	switch r.format {
	case FormatPlain:
		return r.renderPlain(records)
	case FormatKV:
		return r.renderKV(records)
	case FormatTable:
		return r.renderTable(records, summary)
	case FormatJSON:
		return r.renderJSON(records, summary)
	default:
		return fmt.Errorf("render: unsupported format %v", r.format)
	}
}

func (r *Renderer) renderPlain(records []triage.FileRecord) error {
	for _, rec := range records {
		line := fmt.Sprintf("%s: %d kbps, %d MB, savings %d MB\n",
			rec.Path, rec.BitrateKbps, rec.SizeMB(), rec.SavingsMB)
		if _, err := io.WriteString(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderKV(records []triage.FileRecord) error {
	for _, rec := range records {
		line := fmt.Sprintf("path=%q bitrate_kbps=%d size_mb=%d savings_mb=%d\n",
			rec.Path, rec.BitrateKbps, rec.SizeMB(), rec.SavingsMB)
		if _, err := io.WriteString(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTable(records []triage.FileRecord, summary Summary) error {
	if len(records) > 0 {
		headers := []string{"#", "Path", "Bitrate", "Size", "Savings"}
		rows := make([][]string, 0, len(records))
		for i, rec := range records {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				rec.Path,
				r.printer.Sprintf("%d kbps", rec.BitrateKbps),
				humanize.IBytes(uint64(rec.SizeBytes)),
				r.printer.Sprintf("%d MB", rec.SavingsMB),
			})
		}
		aligns := []Alignment{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight}
		if _, err := io.WriteString(r.out, Table(headers, rows, aligns)+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(r.out, r.summaryLine(summary)+"\n")
	return err
}

func (r *Renderer) summaryLine(summary Summary) string {
	line := r.printer.Sprintf("%d of %d files selected", summary.Selected, summary.Scanned)
	if summary.SelectedBytes > 0 {
		line += ", " + humanize.IBytes(uint64(summary.SelectedBytes)) + " total"
	}
	if summary.Selected > 0 {
		line += r.printer.Sprintf(", estimated savings %d MB", summary.SavingsMB)
	}
	if summary.Degraded > 0 {
		line += r.printer.Sprintf(" (%d unreadable)", summary.Degraded)
	}
	return line
}

type jsonEntry struct {
	Path        string `json:"path"`
	BitrateKbps int64  `json:"bitrate_kbps"`
	SizeBytes   int64  `json:"size_bytes"`
	SizeMB      int64  `json:"size_mb"`
	SavingsMB   int64  `json:"savings_mb"`
}

type jsonReport struct {
	Root               string      `json:"root"`
	TargetBitrateKbps  int64       `json:"target_bitrate_kbps"`
	Scanned            int         `json:"scanned"`
	Degraded           int         `json:"degraded"`
	SelectedCount      int         `json:"selected_count"`
	SelectedBytes      int64       `json:"selected_bytes"`
	EstimatedSavingsMB int64       `json:"estimated_savings_mb"`
	Selected           []jsonEntry `json:"selected"`
}

func (r *Renderer) renderJSON(records []triage.FileRecord, summary Summary) error {
	entries := make([]jsonEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, jsonEntry{
			Path:        rec.Path,
			BitrateKbps: rec.BitrateKbps,
			SizeBytes:   rec.SizeBytes,
			SizeMB:      rec.SizeMB(),
			SavingsMB:   rec.SavingsMB,
		})
	}
	doc := jsonReport{
		Root:               summary.Root,
		TargetBitrateKbps:  summary.TargetKbps,
		Scanned:            summary.Scanned,
		Degraded:           summary.Degraded,
		SelectedCount:      summary.Selected,
		SelectedBytes:      summary.SelectedBytes,
		EstimatedSavingsMB: summary.SavingsMB,
		Selected:           entries,
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
