package schedule

import (
	"time"

	"go.uber.org/zap"

	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// RecordingSegment is a sub-interval of one recording attributed to a single
// course, or to none (Course == nil) for time no schedule covers. Offsets
// are seconds relative to the recording start.
type RecordingSegment struct {
	Course *entities.Course
	Start  float64
	End    float64
}

// Segmenter splits a recording at schedule boundary crossings.
type Segmenter struct {
	matcher *Matcher
	logger  *zap.Logger
}

// NewSegmenter constructs a Segmenter on top of a Matcher.
func NewSegmenter(matcher *Matcher, logger *zap.Logger) *Segmenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Segmenter{matcher: matcher, logger: logger}
}

// Segment maps the recording onto course segments. The returned segments are
// ordered by start, contiguous and non-overlapping, and collectively cover
// exactly [0, duration). Whole-recording segments are returned for exact
// matches (that course) and no-matches (nil course).
func (s *Segmenter) Segment(ts entities.RecordingTimestamp, duration time.Duration, courses []entities.Course) ([]RecordingSegment, MatchResult) {
	dur := duration.Seconds()
	match := s.matcher.Match(ts, duration, courses)

	switch match.Kind {
	case MatchExact:
		return []RecordingSegment{{Course: match.Course, Start: 0, End: dur}}, match
	case MatchNone:
		return []RecordingSegment{{Course: nil, Start: 0, End: dur}}, match
	}

	// Partial overlap: one segment per overlapping schedule, with nil-course
	// filler for any uncovered time. Overlaps arrive sorted by start.
	var segments []RecordingSegment
	cursor := 0.0
	for _, ov := range match.Overlaps {
		start := ov.Start
		if start < cursor {
			// Overlapping schedules are malformed input; the earlier
			// slot keeps the contested span.
			start = cursor
		}
		if ov.End <= start {
			continue
		}
		if start > cursor {
			segments = append(segments, RecordingSegment{Course: nil, Start: cursor, End: start})
		}
		segments = append(segments, RecordingSegment{Course: ov.Course, Start: start, End: ov.End})
		cursor = ov.End
	}
	if cursor < dur {
		segments = append(segments, RecordingSegment{Course: nil, Start: cursor, End: dur})
	}

	s.logger.Debug("recording split across schedule boundaries",
		zap.String("recording", ts.Format()),
		zap.Int("segments", len(segments)),
	)
	return segments, match
}
