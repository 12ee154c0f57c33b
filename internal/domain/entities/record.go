package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingWarning is a non-fatal condition recorded alongside the record
// for audit (schedule ambiguity, alignment gaps, generation failures).
type ProcessingWarning struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// RecordingRecord is one persisted unit: a (sub-)recording attributed to a
// course, with its speaker-labeled transcript and generated content.
// Immutable once written except for the SpeakerLabels overlay.
type RecordingRecord struct {
	ID                uuid.UUID           `json:"id"`
	SourceFile        string              `json:"source_file"`
	RecordedAt        time.Time           `json:"recorded_at"`
	Ordinal           int                 `json:"ordinal,omitempty"`
	Course            *string             `json:"course,omitempty"` // nil means Unknown Course
	SegmentStart      float64             `json:"segment_start"`
	SegmentEnd        float64             `json:"segment_end"`
	Utterances        []LabeledUtterance  `json:"utterances"`
	Summary           string              `json:"summary,omitempty"`
	Highlights        []string            `json:"highlights,omitempty"`
	PendingGeneration bool                `json:"pending_generation,omitempty"`
	Warnings          []ProcessingWarning `json:"warnings,omitempty"`
	SpeakerLabels     SpeakerLabelMap     `json:"speaker_labels,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// NewRecordingRecord creates a record with a fresh id and creation time.
func NewRecordingRecord(sourceFile string, ts RecordingTimestamp) *RecordingRecord {
	return &RecordingRecord{
		ID:         uuid.New(),
		SourceFile: sourceFile,
		RecordedAt: ts.Time,
		Ordinal:    ts.Ordinal,
		CreatedAt:  time.Now(),
	}
}

// CourseName resolves the assigned course for display.
func (r *RecordingRecord) CourseName() string {
	if r.Course == nil {
		return UnknownCourseDisplay
	}
	return *r.Course
}

// AddWarning appends an audit warning.
func (r *RecordingRecord) AddWarning(w ProcessingWarning) {
	r.Warnings = append(r.Warnings, w)
}

// MarkGenerationPending flags the record for a later summary/highlight retry.
func (r *RecordingRecord) MarkGenerationPending() {
	r.Summary = ""
	r.Highlights = nil
	r.PendingGeneration = true
}
