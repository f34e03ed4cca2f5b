package scenes

import (
	"fmt"
	"strconv"
	"strings"
)

// MergeRange joins the scenes numbered [Start, End) into the scene that
// follows them, so "3-5" folds scenes 3 and 4 into scene 5.
type MergeRange struct {
	Start int
	End   int
}

// ParseMergeRanges reads a merge expression of the form "3-5,6-7".
func ParseMergeRanges(input string) ([]MergeRange, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	var ranges []MergeRange
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("merge range %q: want start-end", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("merge range %q: %w", part, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("merge range %q: %w", part, err)
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("merge range %q: start must be >= 1 and end >= start", part)
		}
		ranges = append(ranges, MergeRange{Start: start, End: end})
	}
	return ranges, nil
}

func mergeCovers(ranges []MergeRange, scene int) bool {
	for _, r := range ranges {
		if r.Start <= scene && scene < r.End {
			return true
		}
	}
	return false
}
