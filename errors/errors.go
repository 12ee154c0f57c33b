package errors

import (
	"fmt"
	"time"
)

// AppError is the custom error type for the application
type AppError struct {
	Raw       error
	Code      ErrorCode
	Severity  Severity
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped error to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsFatal reports whether err is an AppError that aborts the current file
func IsFatal(err error) bool {
	if ae, ok := err.(AppError); ok {
		return ae.Severity == SeverityFatal
	}
	return true
}

// CodeOf returns the error code of err, or ErrorCode_INTERNAL for foreign errors
func CodeOf(err error) ErrorCode {
	if ae, ok := err.(AppError); ok {
		return ae.Code
	}
	return ErrorCode_INTERNAL
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_INTERNAL,
		Severity: SeverityFatal,
		Message:  "Internal error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		Code:     ErrorCode_INVALID_ARGUMENT,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// Intake Errors

// ErrFilenameFormat indicates a recording filename that does not decode to a
// valid timestamp. The file is skipped and flagged, never silently dropped.
func ErrFilenameFormat(filename string, err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_FILENAME_FORMAT,
		Severity: SeverityFatal,
		Message:  "Filename does not match YYYY-MM-DD_HH-MM-SS_#.<ext>",
	}.WithDetail("filename", filename)
}

// Schedule Errors

// WarnScheduleAmbiguity is recorded when more than one schedule contains the
// recording interval; the deterministic pick is kept for audit.
func WarnScheduleAmbiguity(picked string, contenders int) AppError {
	return AppError{
		Code:     ErrorCode_SCHEDULE_AMBIGUITY,
		Severity: SeverityWarning,
		Message:  "Multiple schedules contain the recording interval",
	}.WithDetail("picked_course", picked).
		WithDetail("contenders", fmt.Sprintf("%d", contenders))
}

func WarnNoScheduleMatch() AppError {
	return AppError{
		Code:     ErrorCode_NO_SCHEDULE_MATCH,
		Severity: SeverityWarning,
		Message:  "No schedule overlaps the recording; assigned to Unknown Course",
	}
}

// Alignment Errors

func WarnAlignmentGap(utteranceStart, utteranceEnd float64) AppError {
	return AppError{
		Code:     ErrorCode_ALIGNMENT_GAP,
		Severity: SeverityWarning,
		Message:  "Utterance has no overlapping speaker turn",
	}.WithDetail("utterance_start", fmt.Sprintf("%.2f", utteranceStart)).
		WithDetail("utterance_end", fmt.Sprintf("%.2f", utteranceEnd))
}

// External Service Errors

func ErrTranscriptionService(err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_TRANSCRIPTION_SERVICE,
		Severity: SeverityFatal,
		Message:  "Transcription/diarization service failed",
	}
}

// ErrGenerationService is recoverable: the record is persisted with empty
// summary/highlights and a pending-retry marker.
func ErrGenerationService(err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_GENERATION_SERVICE,
		Severity: SeverityWarning,
		Message:  "Summary/highlight generation unavailable",
	}
}

// Persistence Errors

func ErrPersistenceWrite(path string, err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_PERSISTENCE_WRITE,
		Severity: SeverityFatal,
		Message:  "Failed to write recording collection",
	}.WithDetail("path", path)
}

func ErrCourseStore(path string, err error) AppError {
	return AppError{
		Raw:      err,
		Code:     ErrorCode_COURSE_STORE,
		Severity: SeverityFatal,
		Message:  "Failed to load course schedule store",
	}.WithDetail("path", path)
}
