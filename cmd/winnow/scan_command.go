package main

import (
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"winnow/internal/config"
	"winnow/internal/logging"
	"winnow/internal/report"
	"winnow/internal/scan"
	"winnow/internal/triage"
	"winnow/internal/tui"
)

func newScanCommand(cctx *commandContext) *cobra.Command {
	var (
		minBitrate   int64
		topPercent   float64
		minSizeMB    int64
		targetKbps   int64
		orderFlag    string
		minSavings   int64
		poolFlag     string
		outputFlag   string
		workers      int
		probeTimeout time.Duration
		noProgress   bool
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Rank library files by estimated re-encode savings",
		Long: "Scan walks a directory tree, probes every video's bitrate with ffprobe, " +
			"and selects re-encode candidates by threshold floors, a top percentile, or both. " +
			"Unset flags fall back to the configuration file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()

			if !flags.Changed("min-bitrate") {
				minBitrate = cfg.Selection.BitrateFloorKbps
			}
			if !flags.Changed("min-savings") {
				minSavings = cfg.Selection.SavingsFloorMB
			}
			if !flags.Changed("min-size") {
				minSizeMB = cfg.Scan.SizeFloorMB
			}
			if !flags.Changed("target-bitrate") {
				targetKbps = cfg.Selection.TargetBitrateKbps
			}
			if !flags.Changed("order") {
				orderFlag = cfg.Selection.Order
			}
			if !flags.Changed("percentile-pool") {
				poolFlag = cfg.Selection.PercentilePool
			}
			if !flags.Changed("workers") {
				workers = cfg.Probe.Workers
			}
			timeout := cfg.ProbeTimeout()
			if flags.Changed("probe-timeout") {
				timeout = probeTimeout
			}

			order, err := triage.ParseOrder(orderFlag)
			if err != nil {
				return err
			}
			pool, err := triage.ParsePool(poolFlag)
			if err != nil {
				return err
			}
			format, err := resolveFormat(outputFlag, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			// A bare --top switches to percentile selection; adding an
			// explicit floor combines both criteria.
			mode := triage.ModeThreshold
			if flags.Changed("top") {
				mode = triage.ModePercentile
				if flags.Changed("min-bitrate") || flags.Changed("min-savings") {
					mode = triage.ModeCompound
				}
			}

			criteria := triage.Criteria{
				Mode:              mode,
				BitrateFloorKbps:  minBitrate,
				SavingsFloorMB:    minSavings,
				TargetBitrateKbps: targetKbps,
				TopFraction:       topPercent / 100,
				Order:             order,
				Pool:              pool,
			}
			if err := criteria.Validate(); err != nil {
				return err
			}

			root := cfg.Paths.ScanRoot
			if len(args) == 1 {
				root = args[0]
			}
			if strings.TrimSpace(root) == "" {
				root = "."
			}
			root, err = config.ExpandPath(root)
			if err != nil {
				return err
			}

			if err := scan.Preflight(cfg.FFprobeBinary()); err != nil {
				return err
			}

			logger, err := cctx.newLogger()
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger = logging.NewComponentLogger(logger, "scan").With(logging.String("run_id", runID))

			runCtx, cancel := signalContext(cmd.Context())
			defer cancel()

			interactive := !noProgress && isatty.IsTerminal(os.Stderr.Fd())

			// While the progress display owns stderr, per-file log lines go
			// to the log file only.
			scanLogger := logger
			var (
				updates    chan scan.Progress
				uiDone     chan struct{}
				onProgress func(scan.Progress)
			)
			if interactive {
				if quiet, qerr := logging.New(logging.Options{
					Level:  cfg.Logging.Level,
					Format: cfg.Logging.Format,
					Path:   cfg.LogFilePath(),
					Writer: io.Discard,
				}); qerr == nil {
					scanLogger = logging.NewComponentLogger(quiet, "scan").With(logging.String("run_id", runID))
				}

				updates = make(chan scan.Progress, 64)
				program := tea.NewProgram(tui.NewModel(updates, cancel), tea.WithOutput(cmd.ErrOrStderr()))
				uiDone = make(chan struct{})
				go func() {
					_, _ = program.Run()
					close(uiDone)
				}()
				// The display reads until the channel closes; if it dies
				// early the send must not wedge the probe pool.
				onProgress = func(p scan.Progress) {
					select {
					case updates <- p:
					case <-uiDone:
					}
				}
			}

			started := time.Now()
			result, runErr := scan.Run(runCtx, scan.Options{
				Root:           root,
				SizeFloorBytes: minSizeMB * 1024 * 1024,
				TargetKbps:     targetKbps,
				Extensions:     cfg.Scan.Extensions,
				Workers:        workers,
				ProbeTimeout:   timeout,
				Source:         scan.ProbeSource{Binary: cfg.FFprobeBinary()},
				OnProgress:     onProgress,
				Logger:         scanLogger,
			})
			if interactive {
				close(updates)
				<-uiDone
			}
			if runErr != nil {
				return runErr
			}

			selected := triage.Select(result.Records, criteria)
			if interactive && len(result.Warnings) > 0 {
				logger.Warn("some files could not be probed",
					logging.Int("count", len(result.Warnings)),
					logging.String("log_file", cfg.LogFilePath()))
			}
			logger.Info("scan complete",
				logging.String("root", root),
				logging.String("mode", criteria.Mode.String()),
				logging.Int("scanned", len(result.Records)),
				logging.Int("selected", len(selected)),
				logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)))

			summary := report.Summarize(root, result.Records, selected, targetKbps)
			return report.NewRenderer(cmd.OutOrStdout(), format).Render(selected, summary)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&minBitrate, "min-bitrate", 0, "Bitrate floor in kbps for threshold selection")
	flags.Float64Var(&topPercent, "top", 0, "Keep the top percent (0,100] by the order metric")
	flags.Int64Var(&minSizeMB, "min-size", 0, "Minimum file size in MB to consider")
	flags.Int64Var(&targetKbps, "target-bitrate", 0, "Assumed re-encode bitrate in kbps")
	flags.StringVar(&orderFlag, "order", "", "Ranking metric: bitrate or savings")
	flags.Int64Var(&minSavings, "min-savings", 0, "Savings floor in MB for threshold selection")
	flags.StringVar(&poolFlag, "percentile-pool", "", "Percentile denominator: filtered or corpus")
	flags.StringVarP(&outputFlag, "output", "o", "auto", "Output format: auto, plain, table, kv, or json")
	flags.IntVar(&workers, "workers", 0, "Concurrent probe processes (default one per CPU)")
	flags.DurationVar(&probeTimeout, "probe-timeout", 0, "Per-file probe timeout, e.g. 45s")
	flags.BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress display")

	return cmd
}

// resolveFormat maps --output onto a concrete format; auto renders a table
// on terminals and plain lines when piped.
func resolveFormat(value string, out io.Writer) (report.Format, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "auto" {
		if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return report.FormatTable, nil
		}
		return report.FormatPlain, nil
	}
	return report.ParseFormat(v)
}
