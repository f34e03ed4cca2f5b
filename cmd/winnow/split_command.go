package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"winnow/internal/config"
	"winnow/internal/media/ffmpeg"
	"winnow/internal/scan"
	"winnow/internal/scenes"
)

func newSplitCommand(cctx *commandContext) *cobra.Command {
	var (
		blackMin   float64
		pictureThr float64
		pixelThr   float64
		mergeFlag  string
		sceneMin   float64
		introLimit float64
		destDir    string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a video into scenes at black-frame transitions",
		Long: "Split detects black-frame transitions with ffmpeg, snaps each one to the " +
			"nearest keyframe, and stream-copies Intro, Scene, and Outro sections without " +
			"re-encoding. Unset flags fall back to the configuration file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()

			if !flags.Changed("black-min-duration") {
				blackMin = cfg.Split.BlackMinDuration
			}
			if !flags.Changed("picture-threshold") {
				pictureThr = cfg.Split.PictureThreshold
			}
			if !flags.Changed("pixel-threshold") {
				pixelThr = cfg.Split.PixelThreshold
			}
			if !flags.Changed("scene-min") {
				sceneMin = cfg.Split.SceneMinSeconds
			}
			if !flags.Changed("intro-limit") {
				introLimit = cfg.Split.IntroLimitSeconds
			}

			merges, err := scenes.ParseMergeRanges(mergeFlag)
			if err != nil {
				return err
			}

			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			dest := strings.TrimSpace(destDir)
			if dest != "" {
				if dest, err = config.ExpandPath(dest); err != nil {
					return err
				}
			}

			if err := scan.Preflight(cfg.FFprobeBinary()); err != nil {
				return err
			}
			if err := scan.Preflight(cfg.FFmpegBinary()); err != nil {
				return err
			}

			logger, err := cctx.newLogger()
			if err != nil {
				return err
			}
			client, err := ffmpeg.New(cfg.FFmpegBinary())
			if err != nil {
				return err
			}
			splitter, err := scenes.NewSplitter(client, cfg.FFprobeBinary(), logger)
			if err != nil {
				return err
			}

			runCtx, cancel := signalContext(cmd.Context())
			defer cancel()

			outputs, err := splitter.Split(runCtx, scenes.Request{
				Input:   input,
				DestDir: dest,
				Detect: ffmpeg.DetectOptions{
					MinDuration:      blackMin,
					PictureThreshold: pictureThr,
					PixelThreshold:   pixelThr,
				},
				Plan: scenes.PlanOptions{
					MinSceneSeconds:   sceneMin,
					IntroLimitSeconds: introLimit,
					Merges:            merges,
				},
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(outputs) == 0 {
				fmt.Fprintln(out, "No transitions detected; nothing to split")
				return nil
			}
			for _, output := range outputs {
				fmt.Fprintf(out, "%-10s %-22s %s\n", output.Cut.Label, formatSpan(output.Cut), output.Path)
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run; no files were written")
			} else {
				fmt.Fprintf(out, "Wrote %d sections\n", len(outputs))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&blackMin, "black-min-duration", 0, "Minimum black run in seconds treated as a transition")
	flags.Float64Var(&pictureThr, "picture-threshold", 0, "blackdetect picture threshold (0-1)")
	flags.Float64Var(&pixelThr, "pixel-threshold", 0, "blackdetect pixel threshold (0-1)")
	flags.StringVar(&mergeFlag, "merge", "", "Scene ranges to merge, e.g. \"3-5,7-8\"")
	flags.Float64Var(&sceneMin, "scene-min", 0, "Minimum scene length in seconds")
	flags.Float64Var(&introLimit, "intro-limit", 0, "Latest second a black run may still end the intro")
	flags.StringVar(&destDir, "dest", "", "Destination directory (default: the input's directory)")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the planned cuts without writing files")

	return cmd
}

func formatSpan(cut scenes.Cut) string {
	start := strconv.FormatFloat(cut.Start, 'f', -1, 64)
	if cut.Duration < 0 {
		return start + "s-end"
	}
	end := strconv.FormatFloat(cut.Start+cut.Duration, 'f', -1, 64)
	return start + "s-" + end + "s"
}
