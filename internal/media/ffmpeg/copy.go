package ffmpeg

import (
	"context"
	"errors"
	"fmt"
)

// CopySection stream-copies a section of src into dest without re-encoding.
// The section starts at start seconds; a negative duration copies through the
// end of the input. Existing destination files are overwritten so re-running
// a split never blocks on a prompt.
func (c *Client) CopySection(ctx context.Context, src string, start, duration float64, dest string) error {
	if src == "" {
		return errors.New("copy section: empty source")
	}
	if dest == "" {
		return errors.New("copy section: empty destination")
	}
	args := []string{"-ss", formatSeconds(start), "-i", src}
	if duration >= 0 {
		args = append(args, "-t", formatSeconds(duration))
	}
	args = append(args, "-c", "copy", "-y", dest)
	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return fmt.Errorf("copy section: %w", err)
	}
	return nil
}
