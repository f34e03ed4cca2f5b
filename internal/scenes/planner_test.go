package scenes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"winnow/internal/media/ffmpeg"
)

func TestNearestKeyframe(t *testing.T) {
	tests := []struct {
		name      string
		keyframes []float64
		start     float64
		end       float64
		expected  float64
		none      bool
	}{
		{
			name:      "inside transition prefers closer side",
			keyframes: []float64{10, 14.2, 15.5, 20},
			start:     14, end: 16,
			expected: 15.5,
		},
		{
			name:      "inside transition tie goes to before",
			keyframes: []float64{14.5, 15.5},
			start:     14, end: 16,
			expected: 14.5,
		},
		{
			name:      "only before side inside transition",
			keyframes: []float64{14.5, 18},
			start:     14, end: 16,
			expected: 14.5,
		},
		{
			name:      "only after side inside transition",
			keyframes: []float64{10, 15.9},
			start:     14, end: 16,
			expected: 15.9,
		},
		{
			name:      "both outside near equidistant prefers before",
			keyframes: []float64{18, 23.2},
			start:     20, end: 21,
			expected: 18,
		},
		{
			name:      "both outside takes clearly closer side",
			keyframes: []float64{15, 22},
			start:     20, end: 21,
			expected: 22,
		},
		{
			name:      "keyframe exactly at midpoint",
			keyframes: []float64{20.5},
			start:     20, end: 21,
			expected: 20.5,
		},
		{
			name:      "only later keyframes exist",
			keyframes: []float64{30},
			start:     20, end: 21,
			expected: 30,
		},
		{
			name:      "only earlier keyframes exist",
			keyframes: []float64{5},
			start:     20, end: 21,
			expected: 5,
		},
		{
			name:  "no keyframes",
			start: 20, end: 21,
			none: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nearestKeyframe(tt.keyframes, tt.start, tt.end)
			if tt.none {
				if ok {
					t.Fatalf("expected no keyframe, got %v", got)
				}
				return
			}
			if !ok {
				t.Fatal("expected a keyframe")
			}
			if got != tt.expected {
				t.Fatalf("nearestKeyframe = %v, want %v", got, tt.expected)
			}
		})
	}
}

func episodeFixture() ([]ffmpeg.BlackInterval, []float64) {
	intervals := []ffmpeg.BlackInterval{
		{Start: 88, End: 90},
		{Start: 600, End: 601},
		{Start: 1200, End: 1202},
		{Start: 2000, End: 2001},
		{Start: 3500, End: 3501},
	}
	keyframes := []float64{0, 89, 600.5, 1201, 2000.5, 3500.5}
	return intervals, keyframes
}

func TestPlanEpisode(t *testing.T) {
	intervals, keyframes := episodeFixture()
	cuts := Plan(intervals, keyframes, 3600, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
	})

	want := []Cut{
		{Label: "Intro", Start: 0, Duration: 89},
		{Label: "Scene 1", Start: 89, Duration: 511.5},
		{Label: "Scene 2", Start: 600.5, Duration: 600.5},
		{Label: "Scene 3", Start: 1201, Duration: 799.5},
		{Label: "Scene 4", Start: 2000.5, Duration: 1500},
		{Label: "Outro", Start: 3500.5, Duration: -1},
	}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanMergesScenes(t *testing.T) {
	intervals, keyframes := episodeFixture()
	cuts := Plan(intervals, keyframes, 3600, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
		Merges:            []MergeRange{{Start: 1, End: 2}},
	})

	want := []Cut{
		{Label: "Intro", Start: 0, Duration: 89},
		{Label: "Scene 1", Start: 89, Duration: 1112},
		{Label: "Scene 2", Start: 1201, Duration: 799.5},
		{Label: "Scene 3", Start: 2000.5, Duration: 1500},
		{Label: "Outro", Start: 3500.5, Duration: -1},
	}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanWithoutTransitionsKeepsWholeFile(t *testing.T) {
	cuts := Plan(nil, []float64{0, 10}, 1800, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
	})

	want := []Cut{{Label: "Scene 1", Start: 0, Duration: -1}}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanSkipsIntroWhenFirstBlackIsLate(t *testing.T) {
	intervals := []ffmpeg.BlackInterval{{Start: 700, End: 702}}
	keyframes := []float64{0, 701}

	cuts := Plan(intervals, keyframes, 1800, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
	})

	want := []Cut{
		{Label: "Scene 1", Start: 0, Duration: 701},
		{Label: "Scene 2", Start: 701, Duration: -1},
	}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanFoldsShortScenesForward(t *testing.T) {
	intervals := []ffmpeg.BlackInterval{
		{Start: 600, End: 601},
		{Start: 650, End: 651},
	}
	keyframes := []float64{0, 600.5, 650.5}

	cuts := Plan(intervals, keyframes, 1800, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
	})

	want := []Cut{
		{Label: "Scene 1", Start: 0, Duration: 600.5},
		{Label: "Scene 2", Start: 600.5, Duration: -1},
	}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanIntroFallsBackToTransitionEnd(t *testing.T) {
	intervals := []ffmpeg.BlackInterval{{Start: 88, End: 90}}

	cuts := Plan(intervals, nil, 1800, PlanOptions{
		MinSceneSeconds:   300,
		IntroLimitSeconds: 180,
	})

	want := []Cut{
		{Label: "Intro", Start: 0, Duration: 90},
		{Label: "Scene 1", Start: 90, Duration: -1},
	}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMergeRanges(t *testing.T) {
	tests := []struct {
		input    string
		expected []MergeRange
		wantErr  bool
	}{
		{input: "3-5,6-7", expected: []MergeRange{{Start: 3, End: 5}, {Start: 6, End: 7}}},
		{input: " 3-5 , 6-7 ", expected: []MergeRange{{Start: 3, End: 5}, {Start: 6, End: 7}}},
		{input: "", expected: nil},
		{input: "3", wantErr: true},
		{input: "a-b", wantErr: true},
		{input: "0-2", wantErr: true},
		{input: "5-3", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMergeRanges(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseMergeRanges(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMergeRanges(%q): %v", tt.input, err)
		}
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Fatalf("ParseMergeRanges(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestMergeCovers(t *testing.T) {
	ranges := []MergeRange{{Start: 3, End: 5}}
	for scene, want := range map[int]bool{2: false, 3: true, 4: true, 5: false} {
		if got := mergeCovers(ranges, scene); got != want {
			t.Fatalf("mergeCovers(%d) = %v, want %v", scene, got, want)
		}
	}
}
