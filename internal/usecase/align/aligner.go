// Package align merges the two independently produced time-aligned streams —
// transcribed utterances and diarization speaker turns — into one ordered
// speaker-labeled transcript.
package align

import (
	"math"
	"sort"

	"go.uber.org/zap"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// Aligner assigns a speaker to each utterance by greatest overlap duration
// against the diarization turns.
type Aligner struct {
	logger *zap.Logger
}

// NewAligner constructs an Aligner.
func NewAligner(logger *zap.Logger) *Aligner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aligner{logger: logger}
}

// Align labels each utterance with the speaker of the turn it overlaps most.
// Ties go to the turn whose start is closer to the utterance's start, then
// to the earlier turn. An utterance with no overlapping turn is labeled
// UnknownSpeaker and reported as a warning, never dropped. Utterance order
// is preserved; adjacent utterances are never merged.
//
// Both inputs are expected sorted by start offset (they are sorted here
// defensively); the merge is a two-pointer sweep with a bounded re-scan, so
// no utterance-by-turn cross product is built.
func (a *Aligner) Align(utterances []entities.Utterance, turns []entities.SpeakerTurn) ([]entities.LabeledUtterance, []apperrors.AppError) {
	utts := make([]entities.Utterance, len(utterances))
	copy(utts, utterances)
	sort.SliceStable(utts, func(i, j int) bool { return utts[i].Start < utts[j].Start })

	trns := make([]entities.SpeakerTurn, len(turns))
	copy(trns, turns)
	sort.SliceStable(trns, func(i, j int) bool { return trns[i].Start < trns[j].Start })

	labeled := make([]entities.LabeledUtterance, 0, len(utts))
	var warnings []apperrors.AppError

	ti := 0
	for _, u := range utts {
		// Drop turns that end at or before this utterance's start; they
		// cannot overlap it or any later utterance.
		for ti < len(trns) && trns[ti].End <= u.Start {
			ti++
		}

		speaker := entities.UnknownSpeaker
		bestOverlap := 0.0
		bestDist := math.Inf(1)
		for j := ti; j < len(trns) && trns[j].Start < u.End; j++ {
			ov := overlap(u.Start, u.End, trns[j].Start, trns[j].End)
			if ov <= 0 {
				continue
			}
			dist := math.Abs(trns[j].Start - u.Start)
			if ov > bestOverlap || (ov == bestOverlap && dist < bestDist) {
				bestOverlap = ov
				bestDist = dist
				speaker = trns[j].Speaker
			}
		}

		if speaker == entities.UnknownSpeaker {
			warnings = append(warnings, apperrors.WarnAlignmentGap(u.Start, u.End))
			a.logger.Debug("utterance has no overlapping speaker turn",
				zap.Float64("start", u.Start),
				zap.Float64("end", u.End),
			)
		}

		labeled = append(labeled, entities.LabeledUtterance{
			Start:   u.Start,
			End:     u.End,
			Speaker: speaker,
			Text:    u.Text,
		})
	}

	return labeled, warnings
}

func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return hi - lo
}
