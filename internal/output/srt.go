// Package output renders transcript artifacts.
package output

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// RenderSRT renders labeled utterances as a sequential subtitle file: index,
// "HH:MM:SS,mmm --> HH:MM:SS,mmm", speaker-prefixed text, blank line.
func RenderSRT(utterances []entities.LabeledUtterance) string {
	var b strings.Builder
	for i, u := range utterances {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(u.Start), FormatTimestamp(u.End))
		fmt.Fprintf(&b, "%s: %s\n\n", u.Speaker, strings.TrimSpace(u.Text))
	}
	return b.String()
}

// WriteSRT writes the subtitle artifact to path.
func WriteSRT(path string, utterances []entities.LabeledUtterance) error {
	return os.WriteFile(path, []byte(RenderSRT(utterances)), 0o644)
}

// FormatTimestamp converts seconds to the subtitle time format
// HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
	ms := int(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1_000
	ms -= s * 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
