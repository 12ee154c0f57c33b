package schedule

import (
	"testing"
	"time"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// 2025-08-11 is a Monday.
func mondayAt(hour, minute int) entities.RecordingTimestamp {
	return entities.RecordingTimestamp{
		Time: time.Date(2025, time.August, 11, hour, minute, 0, 0, time.Local),
	}
}

func course(name string, slots ...entities.CourseSchedule) entities.Course {
	return entities.Course{Name: name, Schedules: slots}
}

func slot(day time.Weekday, startH, startM, endH, endM int) entities.CourseSchedule {
	return entities.CourseSchedule{
		Weekday: day,
		Start:   entities.NewClockTime(startH, startM),
		End:     entities.NewClockTime(endH, endM),
	}
}

func TestMatch_ExactInsideSingleSchedule(t *testing.T) {
	courses := []entities.Course{
		course("Lit", slot(time.Monday, 13, 0, 14, 0)),
		course("Bio", slot(time.Tuesday, 13, 0, 14, 0)),
	}
	m := NewMatcher(DefaultTolerance, nil)

	res := m.Match(mondayAt(13, 5), 50*time.Minute, courses)
	if res.Kind != MatchExact {
		t.Fatalf("expected exact match, got %s", res.Kind)
	}
	if res.Course.Name != "Lit" {
		t.Fatalf("expected Lit, got %s", res.Course.Name)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestMatch_StartAtScheduleEndIsNotContained(t *testing.T) {
	// Half-open semantics: a recording starting exactly when the slot ends
	// belongs to whatever comes after, not to the slot.
	courses := []entities.Course{course("Lit", slot(time.Monday, 13, 0, 14, 0))}
	m := NewMatcher(0, nil)

	res := m.Match(mondayAt(14, 0), 30*time.Minute, courses)
	if res.Kind != MatchNone {
		t.Fatalf("expected no match, got %s", res.Kind)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != apperrors.ErrorCode_NO_SCHEDULE_MATCH {
		t.Fatalf("expected NO_SCHEDULE_MATCH warning, got %v", res.Warnings)
	}
}

func TestMatch_ToleranceAbsorbsLateStart(t *testing.T) {
	courses := []entities.Course{course("Lit", slot(time.Monday, 13, 0, 14, 0))}
	m := NewMatcher(10*time.Minute, nil)

	// Starts 5 minutes before the slot, runs 5 minutes past its end.
	res := m.Match(mondayAt(12, 55), 70*time.Minute, courses)
	if res.Kind != MatchExact || res.Course.Name != "Lit" {
		t.Fatalf("expected exact Lit within tolerance, got %+v", res)
	}
}

func TestMatch_WrongWeekdayIsNoMatch(t *testing.T) {
	courses := []entities.Course{course("Lit", slot(time.Friday, 13, 0, 14, 0))}
	m := NewMatcher(DefaultTolerance, nil)

	res := m.Match(mondayAt(13, 5), 30*time.Minute, courses)
	if res.Kind != MatchNone {
		t.Fatalf("expected no match on wrong weekday, got %s", res.Kind)
	}
}

func TestMatch_AmbiguousContainmentIsDeterministicAndFlagged(t *testing.T) {
	// Malformed store: two courses share the same slot. The earliest start
	// then the lowest course name wins, and the pick is flagged.
	courses := []entities.Course{
		course("Zoology", slot(time.Monday, 13, 0, 14, 0)),
		course("Algebra", slot(time.Monday, 13, 0, 14, 0)),
	}
	m := NewMatcher(DefaultTolerance, nil)

	res := m.Match(mondayAt(13, 10), 40*time.Minute, courses)
	if res.Kind != MatchExact {
		t.Fatalf("expected exact match, got %s", res.Kind)
	}
	if res.Course.Name != "Algebra" {
		t.Fatalf("tie-break should pick Algebra, got %s", res.Course.Name)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != apperrors.ErrorCode_SCHEDULE_AMBIGUITY {
		t.Fatalf("expected SCHEDULE_AMBIGUITY warning, got %v", res.Warnings)
	}

	// Earlier start beats course name.
	courses = append(courses, course("Aardvark Studies", slot(time.Monday, 12, 45, 14, 30)))
	res = m.Match(mondayAt(13, 10), 40*time.Minute, courses)
	if res.Course.Name != "Aardvark Studies" {
		t.Fatalf("earliest start should win, got %s", res.Course.Name)
	}
}

func TestMatch_PartialOverlapAcrossBoundary(t *testing.T) {
	courses := []entities.Course{
		course("Lit", slot(time.Monday, 13, 0, 14, 0)),
		course("Bio", slot(time.Monday, 14, 0, 15, 0)),
	}
	m := NewMatcher(DefaultTolerance, nil)

	// 13:30 to 15:30 spans both slots and runs past the second.
	res := m.Match(mondayAt(13, 30), 2*time.Hour, courses)
	if res.Kind != MatchPartial {
		t.Fatalf("expected partial overlap, got %s", res.Kind)
	}
	if len(res.Overlaps) != 2 {
		t.Fatalf("expected 2 overlaps, got %d", len(res.Overlaps))
	}
	if res.Overlaps[0].Course.Name != "Lit" || res.Overlaps[0].Start != 0 || res.Overlaps[0].End != 1800 {
		t.Fatalf("unexpected first overlap: %+v", res.Overlaps[0])
	}
	if res.Overlaps[1].Course.Name != "Bio" || res.Overlaps[1].Start != 1800 || res.Overlaps[1].End != 5400 {
		t.Fatalf("unexpected second overlap: %+v", res.Overlaps[1])
	}
}

func TestMatch_TrivialOverlapIgnored(t *testing.T) {
	courses := []entities.Course{course("Lit", slot(time.Monday, 13, 0, 14, 0))}
	m := NewMatcher(0, nil)

	// Only the last half second grazes the slot.
	res := m.Match(mondayAt(12, 30), 30*time.Minute+500*time.Millisecond, courses)
	if res.Kind != MatchNone {
		t.Fatalf("expected sub-second graze to be no match, got %s", res.Kind)
	}
}
