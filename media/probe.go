// Package media wraps ffprobe metadata lookups shared by the speech
// adapter and the compositor.
package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration returns the duration of a media file in seconds. It reads
// the container's format duration and falls back to the first stream that
// reports one.
func ProbeDuration(path string) (float64, error) {
	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}

	var data struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			Duration string `json:"duration"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return 0, fmt.Errorf("parse probe output for %s: %w", path, err)
	}

	if d, ok := parseDuration(data.Format.Duration); ok {
		return d, nil
	}
	for _, s := range data.Streams {
		if d, ok := parseDuration(s.Duration); ok {
			return d, nil
		}
	}
	return 0, fmt.Errorf("no duration reported for %s", path)
}

func parseDuration(s string) (float64, bool) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
