package entities

import (
	"fmt"
	"time"
)

// CourseSchedule is one recurring weekly meeting slot of a course.
// Start must be before End within the same day; overnight slots are not
// supported.
type CourseSchedule struct {
	Weekday time.Weekday `yaml:"weekday" json:"weekday" validate:"min=0,max=6"`
	Start   ClockTime    `yaml:"start" json:"start"`
	End     ClockTime    `yaml:"end" json:"end"`
}

// Validate checks the same-day ordering invariant.
func (s CourseSchedule) Validate() error {
	if s.Start >= s.End {
		return fmt.Errorf("schedule start %s must be before end %s", s.Start, s.End)
	}
	return nil
}

// Duration returns the slot length.
func (s CourseSchedule) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Second
}

// Course is identified by name and owns its weekly schedules plus keywords
// used for auxiliary content-based matching. Courses are managed elsewhere;
// this package treats them as read-only.
type Course struct {
	Name      string           `yaml:"name" json:"name" validate:"required"`
	Keywords  []string         `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Schedules []CourseSchedule `yaml:"schedules,omitempty" json:"schedules,omitempty" validate:"dive"`
}

// UnknownCourseDisplay is the presentation name for recordings no schedule
// claims. Assignment itself is modeled as a nil *Course, never as a course
// with this name.
const UnknownCourseDisplay = "Unknown Course"

// CourseDisplayName resolves an optional course to its display string at the
// presentation boundary.
func CourseDisplayName(c *Course) string {
	if c == nil {
		return UnknownCourseDisplay
	}
	return c.Name
}
