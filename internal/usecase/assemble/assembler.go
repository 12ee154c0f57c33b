// Package assemble packages aligned transcripts into persistable
// RecordingRecords and renders them for display.
package assemble

import (
	"fmt"
	"strings"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// Input carries everything needed to build one RecordingRecord.
type Input struct {
	SourceFile   string
	Timestamp    entities.RecordingTimestamp
	Course       *entities.Course // nil for Unknown Course
	SegmentStart float64
	SegmentEnd   float64
	Utterances   []entities.LabeledUtterance
	Summary      string
	Highlights   []string
	// PendingGeneration marks a record whose summary/highlights could not
	// be produced and should be retried later.
	PendingGeneration bool
	Warnings          []apperrors.AppError
}

// Assembler builds RecordingRecords.
type Assembler struct{}

// NewAssembler creates a new Assembler instance
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the persisted record. Speaker ids are stored raw; display
// names come from the SpeakerLabelMap overlay at render time only.
func (a *Assembler) Assemble(in Input) *entities.RecordingRecord {
	rec := entities.NewRecordingRecord(in.SourceFile, in.Timestamp)
	if in.Course != nil {
		name := in.Course.Name
		rec.Course = &name
	}
	rec.SegmentStart = in.SegmentStart
	rec.SegmentEnd = in.SegmentEnd
	rec.Utterances = in.Utterances
	rec.Summary = in.Summary
	rec.Highlights = in.Highlights
	if in.PendingGeneration {
		rec.MarkGenerationPending()
	}
	for _, w := range in.Warnings {
		rec.AddWarning(WarningFrom(w))
	}
	return rec
}

// WarningFrom converts a pipeline warning into its persisted form.
func WarningFrom(e apperrors.AppError) entities.ProcessingWarning {
	return entities.ProcessingWarning{
		Code:    e.Code.String(),
		Message: e.Message,
		Details: e.Details,
	}
}

// RenderTranscript renders the speaker-tagged transcript with the label map
// applied as a display overlay. Unmapped ids render as their raw value. The
// output is deterministic: equal inputs produce byte-identical text.
func RenderTranscript(utterances []entities.LabeledUtterance, labels entities.SpeakerLabelMap) string {
	var b strings.Builder
	for _, u := range utterances {
		fmt.Fprintf(&b, "[%s] %s: %s\n", formatOffset(u.Start), labels.Resolve(u.Speaker), strings.TrimSpace(u.Text))
	}
	return b.String()
}

func formatOffset(sec float64) string {
	total := int(sec)
	h := total / 3600
	m := (total / 60) % 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
