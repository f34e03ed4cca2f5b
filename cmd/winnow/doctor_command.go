package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"winnow/internal/config"
	"winnow/internal/deps"
)

func newDoctorCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and library access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			for _, line := range renderSectionHeader("External tools", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				kind := statusOK
				detail := status.Resolved
				if status.Available {
					if version, verr := deps.Version(cmd.Context(), status.Resolved); verr == nil {
						detail = fmt.Sprintf("%s (%s)", status.Resolved, version)
					}
				} else {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					} else {
						failed = true
					}
					detail = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			for _, line := range renderSectionHeader("Library", colorize) {
				fmt.Fprintln(out, line)
			}
			root := strings.TrimSpace(cfg.Paths.ScanRoot)
			if root == "" {
				if root, err = config.ExpandPath("."); err != nil {
					return err
				}
			}
			kind, detail := checkScanRoot(root)
			if kind == statusError {
				failed = true
			}
			fmt.Fprintln(out, renderStatusLine("Scan root", kind, detail, colorize))
			if kind == statusOK {
				if free, ferr := freeSpace(root); ferr == nil {
					fmt.Fprintln(out, renderStatusLine("Free space", statusInfo, humanize.IBytes(free), colorize))
				}
			}

			if logDir := strings.TrimSpace(cfg.Paths.LogDir); logDir != "" {
				kind := statusOK
				detail := logDir
				if err := unix.Access(logDir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
					kind = statusWarn
					detail = fmt.Sprintf("%s (not writable: %v)", logDir, err)
				}
				fmt.Fprintln(out, renderStatusLine("Log directory", kind, detail, colorize))
			}

			if failed {
				return errors.New("doctor: required checks failed")
			}
			return nil
		},
	}
}

func checkScanRoot(path string) (statusKind, string) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return statusError, fmt.Sprintf("%s (does not exist)", path)
		}
		return statusError, fmt.Sprintf("%s (stat: %v)", path, err)
	}
	if !info.IsDir() {
		return statusError, fmt.Sprintf("%s (not a directory)", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return statusError, fmt.Sprintf("%s (insufficient permissions: %v)", path, err)
	}
	return statusOK, fmt.Sprintf("%s (readable)", path)
}

func freeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
