// Package subtitle converts timed caption beats into an SRT document.
package subtitle

import (
	"fmt"
	"math"
	"strings"

	"reelforge/models"
)

// Format renders beats as a numbered SRT cue list: cue index, a
// `start --> end` line in HH:MM:SS,mmm precision, the caption text and a
// blank separator. An empty beat slice yields an empty document. Beat
// ranges are emitted as-is; no validation or clamping happens here.
func Format(beats []models.Beat) string {
	if len(beats) == 0 {
		return ""
	}

	var b strings.Builder
	for i, beat := range beats {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, Timestamp(beat.TStart), Timestamp(beat.TEnd), beat.Text)
		if i < len(beats)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Timestamp formats float seconds as a zero-padded SRT timestamp,
// rounding to whole milliseconds.
func Timestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMS := int64(math.Round(seconds * 1000))
	ms := totalMS % 1000
	totalSec := totalMS / 1000
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
