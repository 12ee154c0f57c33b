package align

import "github.com/ientropic/ClassCodex/internal/domain/entities"

// ClipUtterances selects the utterances belonging to the window
// [start, end) and renormalizes their offsets to window-relative seconds.
// An utterance straddling a window boundary belongs to the window holding
// its midpoint, so every utterance lands in exactly one segment; its span is
// clamped to the window.
func ClipUtterances(utterances []entities.Utterance, start, end float64) []entities.Utterance {
	var out []entities.Utterance
	for _, u := range utterances {
		mid := (u.Start + u.End) / 2
		if mid < start || mid >= end {
			continue
		}
		out = append(out, entities.Utterance{
			Start: clamp(u.Start, start, end) - start,
			End:   clamp(u.End, start, end) - start,
			Text:  u.Text,
		})
	}
	return out
}

// ClipTurns intersects the speaker turns with the window [start, end) and
// renormalizes their offsets. A turn straddling a boundary contributes only
// its overlapping part; turns outside the window are dropped.
func ClipTurns(turns []entities.SpeakerTurn, start, end float64) []entities.SpeakerTurn {
	var out []entities.SpeakerTurn
	for _, t := range turns {
		s := clamp(t.Start, start, end)
		e := clamp(t.End, start, end)
		if e <= s {
			continue
		}
		out = append(out, entities.SpeakerTurn{
			Start:   s - start,
			End:     e - start,
			Speaker: t.Speaker,
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
