package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ientropic/ClassCodex/errors"
)

// Recording filenames are fixed-format: 2025-08-14_13-30-00_123.mp3.
// The trailing number disambiguates files recorded in the same second and is
// not part of the time value.
var filenamePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})_(\d{2})-(\d{2})-(\d{2})_(\d+)\.(wav|mp3|flac|ogg)$`)

// RecordingTimestamp is the wall-clock start of a recording decoded from its
// filename.
type RecordingTimestamp struct {
	Time    time.Time `json:"time"`
	Ordinal int       `json:"ordinal"`
}

// ParseRecordingFilename decodes a recording filename into its timestamp.
// It fails with a FILENAME_FORMAT error on pattern mismatch or an invalid
// calendar date/time and never returns a partial timestamp.
func ParseRecordingFilename(filename string) (RecordingTimestamp, error) {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return RecordingTimestamp{}, apperrors.ErrFilenameFormat(filename, nil)
	}

	fields := make([]int, 6)
	for i := 0; i < 6; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return RecordingTimestamp{}, apperrors.ErrFilenameFormat(filename, err)
		}
		fields[i] = n
	}
	year, month, day := fields[0], fields[1], fields[2]
	hour, minute, sec := fields[3], fields[4], fields[5]

	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.Local)
	// time.Date normalizes out-of-range components (month 13 becomes January
	// of the next year); reject anything that did not survive unchanged.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute || t.Second() != sec {
		return RecordingTimestamp{}, apperrors.ErrFilenameFormat(filename,
			fmt.Errorf("invalid date or time component"))
	}

	ordinal, err := strconv.Atoi(m[7])
	if err != nil {
		return RecordingTimestamp{}, apperrors.ErrFilenameFormat(filename, err)
	}

	return RecordingTimestamp{Time: t, Ordinal: ordinal}, nil
}

// Format renders the timestamp back into the filename date/time fields,
// without the ordinal or extension.
func (rt RecordingTimestamp) Format() string {
	return rt.Time.Format("2006-01-02_15-04-05")
}

// Weekday returns the day of week the recording started on.
func (rt RecordingTimestamp) Weekday() time.Weekday {
	return rt.Time.Weekday()
}

// ClockOf returns the recording start as a time-of-day.
func (rt RecordingTimestamp) ClockOf() ClockTime {
	return ClockTimeOf(rt.Time)
}

// ClockTime is a time-of-day as seconds since midnight. Weekly schedule
// comparison happens in (weekday, time-of-day) space, never on absolute dates.
type ClockTime int

// ClockTimeOf extracts the time-of-day from t.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// NewClockTime builds a ClockTime from hour/minute components.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*3600 + minute*60)
}

// Seconds returns the time-of-day as seconds since midnight.
func (c ClockTime) Seconds() float64 {
	return float64(c)
}

func (c ClockTime) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// UnmarshalYAML accepts "HH:MM" or "HH:MM:SS" clock strings.
func (c *ClockTime) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return fmt.Errorf("invalid clock time %q", raw)
	}
	total := 0
	limits := []int{24, 60, 60}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n >= limits[i] {
			return fmt.Errorf("invalid clock time %q", raw)
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}
	*c = ClockTime(total)
	return nil
}

// MarshalYAML renders the canonical HH:MM:SS form.
func (c ClockTime) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
