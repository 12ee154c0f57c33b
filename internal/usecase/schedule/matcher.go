// Package schedule attributes recordings to courses by comparing the
// recording's wall-clock interval against recurring weekly meeting slots.
package schedule

import (
	"sort"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// DefaultTolerance absorbs late starts and early stops when testing whether
// a recording falls inside a slot. The original organizer used a 15-minute
// start window; 10 minutes keeps a late start inside its slot without
// swallowing back-to-back slots separated by a quarter-hour break.
const DefaultTolerance = 10 * time.Minute

// minOverlapSeconds is the smallest overlap treated as real; anything
// shorter is a boundary touch (guards float noise at segment edges).
const minOverlapSeconds = 1.0

// MatchKind discriminates MatchResult
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPartial
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// Overlap is one schedule's intersection with the recording, in seconds
// relative to the recording start.
type Overlap struct {
	Course   *entities.Course
	Schedule entities.CourseSchedule
	Start    float64
	End      float64
}

// MatchResult is the outcome of matching one recording against the schedule
// store: exactly one of Exact (Course set), Partial (Overlaps set) or None.
type MatchResult struct {
	Kind     MatchKind
	Course   *entities.Course
	Overlaps []Overlap
	// Warnings carries data-integrity findings (ambiguous containment);
	// the pick is still deterministic.
	Warnings []apperrors.AppError
}

// Matcher finds the course slot a recording belongs to.
type Matcher struct {
	tolerance time.Duration
	logger    *zap.Logger
}

// NewMatcher constructs a Matcher. A zero tolerance disables the
// late-start/early-stop allowance.
func NewMatcher(tolerance time.Duration, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{tolerance: tolerance, logger: logger}
}

// candidate is a schedule on the recording's weekday, with the comparison
// done in time-of-day seconds.
type candidate struct {
	course *entities.Course
	sched  entities.CourseSchedule
	start  float64
	end    float64
}

// Match compares the recording interval [start, start+duration) against all
// slots on the recording's weekday. Interval semantics are half-open: a
// recording starting exactly at a slot's end time is not contained by it.
func (m *Matcher) Match(ts entities.RecordingTimestamp, duration time.Duration, courses []entities.Course) MatchResult {
	recStart := ts.ClockOf().Seconds()
	recEnd := recStart + duration.Seconds()
	tol := m.tolerance.Seconds()

	var cands []candidate
	for i := range courses {
		course := &courses[i]
		for _, s := range course.Schedules {
			if s.Weekday != ts.Weekday() {
				continue
			}
			cands = append(cands, candidate{
				course: course,
				sched:  s,
				start:  s.Start.Seconds(),
				end:    s.End.Seconds(),
			})
		}
	}

	var contained []candidate
	var overlapping []candidate
	for _, c := range cands {
		ov := overlapSeconds(recStart, recEnd, c.start, c.end)
		if ov <= 0 {
			continue
		}
		if recStart >= c.start-tol && recEnd <= c.end+tol {
			contained = append(contained, c)
		} else if ov >= minOverlapSeconds {
			overlapping = append(overlapping, c)
		}
	}

	if len(contained) > 0 {
		picked := pickDeterministic(contained)
		res := MatchResult{Kind: MatchExact, Course: picked.course}
		if len(contained) > 1 {
			// Schedules should never legitimately overlap; flag rather
			// than silently picking one.
			warn := apperrors.WarnScheduleAmbiguity(picked.course.Name, len(contained))
			res.Warnings = append(res.Warnings, warn)
			m.logger.Warn("ambiguous schedule containment",
				zap.String("picked_course", picked.course.Name),
				zap.Int("contenders", len(contained)),
				zap.String("recording", ts.Format()),
			)
		}
		return res
	}

	if len(overlapping) > 0 {
		overlaps := make([]Overlap, 0, len(overlapping))
		for _, c := range overlapping {
			overlaps = append(overlaps, Overlap{
				Course:   c.course,
				Schedule: c.sched,
				Start:    clampF(c.start-recStart, 0, duration.Seconds()),
				End:      clampF(c.end-recStart, 0, duration.Seconds()),
			})
		}
		sort.SliceStable(overlaps, func(i, j int) bool {
			if overlaps[i].Start != overlaps[j].Start {
				return overlaps[i].Start < overlaps[j].Start
			}
			return overlaps[i].Course.Name < overlaps[j].Course.Name
		})
		return MatchResult{Kind: MatchPartial, Overlaps: overlaps}
	}

	return MatchResult{
		Kind:     MatchNone,
		Warnings: []apperrors.AppError{apperrors.WarnNoScheduleMatch()},
	}
}

// pickDeterministic resolves ambiguous containment: earliest start
// time-of-day first, then lowest course name.
func pickDeterministic(cands []candidate) candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.start < best.start ||
			(c.start == best.start && c.course.Name < best.course.Name) {
			best = c
		}
	}
	return best
}

func overlapSeconds(aStart, aEnd, bStart, bEnd float64) float64 {
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

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
