package scan

import (
	"context"
	"fmt"

	"winnow/internal/media/ffprobe"
)

// ProbeSource fetches container bitrates by shelling out to ffprobe. The
// zero value uses whatever "ffprobe" resolves to on PATH.
type ProbeSource struct {
	Binary string
}

// BitrateKbps implements MetricSource. A probe that runs but yields no
// usable bitrate is an error, so the scanner records the file as degraded
// instead of treating it as a zero-rate selection candidate.
func (p ProbeSource) BitrateKbps(ctx context.Context, path string) (int64, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return 0, err
	}
	kbps := result.BitrateKbps()
	if kbps <= 0 {
		return 0, fmt.Errorf("probe: no usable bitrate for %s", path)
	}
	return kbps, nil
}
