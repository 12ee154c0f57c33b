package assemble

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

func sampleInput() Input {
	return Input{
		SourceFile: "2025-08-14_13-30-00_123.mp3",
		Timestamp: entities.RecordingTimestamp{
			Time:    time.Date(2025, time.August, 14, 13, 30, 0, 0, time.Local),
			Ordinal: 123,
		},
		Course:       &entities.Course{Name: "Lit"},
		SegmentStart: 0,
		SegmentEnd:   57,
		Utterances: []entities.LabeledUtterance{
			{Start: 0, End: 29, Speaker: "SPEAKER_00", Text: "Hello everyone."},
		},
		Summary:    "A lecture greeting.",
		Highlights: []string{"greeting"},
	}
}

func TestAssemble_Fields(t *testing.T) {
	rec := NewAssembler().Assemble(sampleInput())

	if rec.ID == uuid.Nil {
		t.Fatalf("record id not set")
	}
	if rec.CourseName() != "Lit" {
		t.Fatalf("expected course Lit, got %s", rec.CourseName())
	}
	if rec.RecordedAt.IsZero() || rec.CreatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", rec)
	}
	if len(rec.Utterances) != 1 || rec.Utterances[0].Speaker != "SPEAKER_00" {
		t.Fatalf("utterances not carried: %+v", rec.Utterances)
	}
	if rec.PendingGeneration {
		t.Fatalf("record should not be pending")
	}
}

func TestAssemble_UnknownCourse(t *testing.T) {
	in := sampleInput()
	in.Course = nil
	rec := NewAssembler().Assemble(in)

	if rec.Course != nil {
		t.Fatalf("unknown course must be stored as nil, got %v", *rec.Course)
	}
	if rec.CourseName() != entities.UnknownCourseDisplay {
		t.Fatalf("expected display fallback, got %s", rec.CourseName())
	}
}

func TestAssemble_PendingGenerationClearsContent(t *testing.T) {
	in := sampleInput()
	in.PendingGeneration = true
	in.Warnings = []apperrors.AppError{apperrors.ErrGenerationService(nil)}
	rec := NewAssembler().Assemble(in)

	if !rec.PendingGeneration || rec.Summary != "" || rec.Highlights != nil {
		t.Fatalf("pending record must have empty generated fields: %+v", rec)
	}
	if len(rec.Warnings) != 1 || rec.Warnings[0].Code != "GENERATION_SERVICE" {
		t.Fatalf("warning not persisted: %+v", rec.Warnings)
	}
}

func TestRenderTranscript_OverlayDoesNotTouchRawIDs(t *testing.T) {
	rec := NewAssembler().Assemble(sampleInput())

	rendered := RenderTranscript(rec.Utterances, entities.SpeakerLabelMap{
		"SPEAKER_00": "Professor Smith",
	})
	if !strings.Contains(rendered, "Professor Smith: Hello everyone.") {
		t.Fatalf("display name not applied:\n%s", rendered)
	}
	if strings.Contains(rendered, "SPEAKER_00") {
		t.Fatalf("raw id leaked into rendered transcript:\n%s", rendered)
	}
	if rec.Utterances[0].Speaker != "SPEAKER_00" {
		t.Fatalf("stored raw id mutated: %+v", rec.Utterances[0])
	}
}

func TestRenderTranscript_UnmappedIDsRenderRaw(t *testing.T) {
	utts := []entities.LabeledUtterance{
		{Start: 0, End: 5, Speaker: "SPEAKER_01", Text: "Question?"},
	}
	rendered := RenderTranscript(utts, entities.SpeakerLabelMap{"SPEAKER_00": "Professor Smith"})
	if !strings.Contains(rendered, "SPEAKER_01: Question?") {
		t.Fatalf("unmapped id should render raw:\n%s", rendered)
	}
}

func TestRenderTranscript_Idempotent(t *testing.T) {
	utts := []entities.LabeledUtterance{
		{Start: 0, End: 29, Speaker: "SPEAKER_00", Text: "Hello everyone."},
		{Start: 3700, End: 3720, Speaker: "SPEAKER_01", Text: "A long reply."},
	}
	labels := entities.SpeakerLabelMap{"SPEAKER_00": "Professor Smith"}

	first := RenderTranscript(utts, labels)
	second := RenderTranscript(utts, labels)
	if first != second {
		t.Fatalf("rendering is not byte-stable:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "[01:01:40]") {
		t.Fatalf("hour offsets should render HH:MM:SS:\n%s", first)
	}
}
