// Package scenes plans and performs black-transition scene splits. Cut
// points snap to keyframes so the sections can be stream-copied without
// re-encoding.
package scenes

import (
	"fmt"

	"winnow/internal/media/ffmpeg"
)

// Cut is one planned output section. A negative duration runs to the end of
// the input.
type Cut struct {
	Label    string
	Start    float64
	Duration float64
}

// PlanOptions tunes how transitions become cuts.
type PlanOptions struct {
	// MinSceneSeconds is the shortest emitted scene; shorter candidate
	// cuts are folded into the following scene.
	MinSceneSeconds float64
	// IntroLimitSeconds bounds how far into the file the intro may reach.
	// Black transitions starting past it never extend the intro.
	IntroLimitSeconds float64
	// Merges lists scene ranges to join into their successor.
	Merges []MergeRange
}

// Plan derives the cut list from detected black transitions and the keyframe
// table. Intervals must be sorted by start and keyframes ascending, which is
// how the media layer hands them over.
//
// The first cut, when black occurs before the intro limit, is the intro: it
// ends at the keyframe nearest the last qualifying transition. Scenes then
// accumulate between transition keyframes, each at least MinSceneSeconds
// long. Whatever remains after the final cut becomes a trailing scene, or an
// outro when it is too short to stand alone.
func Plan(intervals []ffmpeg.BlackInterval, keyframes []float64, duration float64, opts PlanOptions) []Cut {
	introEnd := 0.0
	for _, iv := range intervals {
		if iv.Start >= opts.IntroLimitSeconds {
			break
		}
		cut := iv.End
		if k, ok := nearestKeyframe(keyframes, iv.Start, iv.End); ok && k > 0 {
			cut = k
		}
		if cut > introEnd {
			introEnd = cut
		}
	}

	var cuts []Cut
	if introEnd > 0 {
		cuts = append(cuts, Cut{Label: "Intro", Start: 0, Duration: introEnd})
	}

	sceneStart := introEnd
	sceneNumber := 1
	premergeStart := introEnd
	premergeNumber := 1
	for _, iv := range intervals {
		k, ok := nearestKeyframe(keyframes, iv.Start, iv.End)
		if !ok || k == 0 {
			continue
		}
		if k-premergeStart < opts.MinSceneSeconds {
			continue
		}
		if mergeCovers(opts.Merges, premergeNumber) {
			premergeStart = k
			premergeNumber++
			continue
		}
		cuts = append(cuts, Cut{
			Label:    fmt.Sprintf("Scene %d", sceneNumber),
			Start:    sceneStart,
			Duration: k - sceneStart,
		})
		sceneStart = k
		premergeStart = k
		sceneNumber++
		premergeNumber++
	}

	if duration-sceneStart > 0 {
		label := fmt.Sprintf("Scene %d", sceneNumber)
		if duration-sceneStart < opts.MinSceneSeconds {
			label = "Outro"
		}
		cuts = append(cuts, Cut{Label: label, Start: sceneStart, Duration: -1})
	}
	return cuts
}

// nearestKeyframe picks the cut point for one black transition: the keyframe
// closest to the transition midpoint, preferring keyframes inside the
// transition, and preferring the earlier side when both are about as far.
func nearestKeyframe(keyframes []float64, start, end float64) (float64, bool) {
	midpoint := (start + end) / 2

	var (
		nearestBefore, nearestAfter float64
		hasBefore, hasAfter         bool
	)
	for _, kf := range keyframes {
		if kf <= midpoint {
			nearestBefore = kf
			hasBefore = true
		}
		if kf >= midpoint {
			nearestAfter = kf
			hasAfter = true
			break
		}
	}

	switch {
	case !hasBefore && !hasAfter:
		return 0, false
	case !hasBefore:
		return nearestAfter, true
	case !hasAfter:
		return nearestBefore, true
	}

	if nearestBefore >= start && nearestAfter <= end {
		if midpoint-nearestBefore <= nearestAfter-midpoint {
			return nearestBefore, true
		}
		return nearestAfter, true
	}

	if nearestBefore >= start {
		return nearestBefore, true
	}
	if nearestAfter <= end {
		return nearestAfter, true
	}

	// Both sides are outside the transition. Prefer the earlier keyframe
	// when the distances are within half a second of each other, so cuts
	// land before the fade instead of after it.
	beforeGap := midpoint - nearestBefore
	afterGap := nearestAfter - midpoint
	if abs(beforeGap-afterGap) <= 0.5 {
		return nearestBefore, true
	}
	if beforeGap <= afterGap {
		return nearestBefore, true
	}
	return nearestAfter, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
