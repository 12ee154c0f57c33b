package align

import (
	"testing"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

func utt(start, end float64, text string) entities.Utterance {
	return entities.Utterance{Start: start, End: end, Text: text}
}

func turn(start, end float64, speaker string) entities.SpeakerTurn {
	return entities.SpeakerTurn{Start: start, End: end, Speaker: entities.SpeakerID(speaker)}
}

func TestAlign_UtteranceContainedInTurn(t *testing.T) {
	a := NewAligner(nil)
	labeled, warnings := a.Align(
		[]entities.Utterance{utt(0, 29, "Hello everyone")},
		[]entities.SpeakerTurn{turn(0, 57, "SPEAKER_00")},
	)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(labeled) != 1 || labeled[0].Speaker != "SPEAKER_00" {
		t.Fatalf("unexpected result: %+v", labeled)
	}
	if labeled[0].Text != "Hello everyone" || labeled[0].Start != 0 || labeled[0].End != 29 {
		t.Fatalf("utterance fields not preserved: %+v", labeled[0])
	}
}

func TestAlign_GreatestOverlapWins(t *testing.T) {
	a := NewAligner(nil)
	// Utterance [10,20) overlaps SPEAKER_00 for 3s and SPEAKER_01 for 7s.
	labeled, _ := a.Align(
		[]entities.Utterance{utt(10, 20, "x")},
		[]entities.SpeakerTurn{
			turn(5, 13, "SPEAKER_00"),
			turn(13, 27, "SPEAKER_01"),
		},
	)
	if labeled[0].Speaker != "SPEAKER_01" {
		t.Fatalf("expected SPEAKER_01 (7s overlap), got %s", labeled[0].Speaker)
	}
}

func TestAlign_TieBreakCloserStart(t *testing.T) {
	a := NewAligner(nil)
	// Both turns overlap for 5s; SPEAKER_01 starts closer to the utterance.
	labeled, _ := a.Align(
		[]entities.Utterance{utt(10, 20, "x")},
		[]entities.SpeakerTurn{
			turn(0, 15, "SPEAKER_00"),
			turn(15, 30, "SPEAKER_01"),
		},
	)
	if labeled[0].Speaker != "SPEAKER_01" {
		t.Fatalf("expected SPEAKER_01 (closer start), got %s", labeled[0].Speaker)
	}
}

func TestAlign_TieBreakEarlierTurn(t *testing.T) {
	a := NewAligner(nil)
	// Equal overlap and equal start distance: the earlier turn wins.
	labeled, _ := a.Align(
		[]entities.Utterance{utt(10, 20, "x")},
		[]entities.SpeakerTurn{
			turn(5, 15, "SPEAKER_00"),
			turn(15, 25, "SPEAKER_01"),
		},
	)
	if labeled[0].Speaker != "SPEAKER_00" {
		t.Fatalf("expected SPEAKER_00 (earlier turn), got %s", labeled[0].Speaker)
	}
}

func TestAlign_NoOverlapYieldsUnknownSpeaker(t *testing.T) {
	a := NewAligner(nil)
	labeled, warnings := a.Align(
		[]entities.Utterance{utt(100, 110, "orphan")},
		[]entities.SpeakerTurn{turn(0, 50, "SPEAKER_00")},
	)
	if len(labeled) != 1 {
		t.Fatalf("orphan utterance must not be dropped: %+v", labeled)
	}
	if labeled[0].Speaker != entities.UnknownSpeaker {
		t.Fatalf("expected UNKNOWN_SPEAKER, got %s", labeled[0].Speaker)
	}
	if len(warnings) != 1 || warnings[0].Code != apperrors.ErrorCode_ALIGNMENT_GAP {
		t.Fatalf("expected ALIGNMENT_GAP warning, got %v", warnings)
	}
}

func TestAlign_PreservesOrderAndNeverMerges(t *testing.T) {
	a := NewAligner(nil)
	labeled, _ := a.Align(
		[]entities.Utterance{
			utt(0, 5, "one"),
			utt(5, 10, "two"),
			utt(10, 15, "three"),
		},
		[]entities.SpeakerTurn{turn(0, 15, "SPEAKER_00")},
	)
	if len(labeled) != 3 {
		t.Fatalf("adjacent same-speaker utterances must stay separate: %+v", labeled)
	}
	for i, want := range []string{"one", "two", "three"} {
		if labeled[i].Text != want {
			t.Fatalf("order not preserved at %d: %+v", i, labeled)
		}
	}
}

func TestAlign_TwoPointerHandlesSparseTurns(t *testing.T) {
	a := NewAligner(nil)
	labeled, warnings := a.Align(
		[]entities.Utterance{
			utt(0, 10, "a"),
			utt(20, 30, "b"),
			utt(300, 310, "c"),
		},
		[]entities.SpeakerTurn{
			turn(0, 12, "SPEAKER_00"),
			turn(295, 320, "SPEAKER_01"),
		},
	)
	if labeled[0].Speaker != "SPEAKER_00" {
		t.Fatalf("first utterance: %+v", labeled[0])
	}
	if labeled[1].Speaker != entities.UnknownSpeaker {
		t.Fatalf("gap utterance should be unknown: %+v", labeled[1])
	}
	if labeled[2].Speaker != "SPEAKER_01" {
		t.Fatalf("late utterance: %+v", labeled[2])
	}
	if len(warnings) != 1 {
		t.Fatalf("expected a single gap warning, got %v", warnings)
	}
}
