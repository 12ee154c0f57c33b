package errors

// ErrorCode identifies a pipeline error kind
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_FILENAME_FORMAT
	ErrorCode_SCHEDULE_AMBIGUITY
	ErrorCode_NO_SCHEDULE_MATCH
	ErrorCode_ALIGNMENT_GAP
	ErrorCode_GENERATION_SERVICE
	ErrorCode_PERSISTENCE_WRITE
	ErrorCode_COURSE_STORE
	ErrorCode_TRANSCRIPTION_SERVICE
)

// String returns the canonical name for an error code
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_FILENAME_FORMAT:
		return "FILENAME_FORMAT"
	case ErrorCode_SCHEDULE_AMBIGUITY:
		return "SCHEDULE_AMBIGUITY"
	case ErrorCode_NO_SCHEDULE_MATCH:
		return "NO_SCHEDULE_MATCH"
	case ErrorCode_ALIGNMENT_GAP:
		return "ALIGNMENT_GAP"
	case ErrorCode_GENERATION_SERVICE:
		return "GENERATION_SERVICE"
	case ErrorCode_PERSISTENCE_WRITE:
		return "PERSISTENCE_WRITE"
	case ErrorCode_COURSE_STORE:
		return "COURSE_STORE"
	case ErrorCode_TRANSCRIPTION_SERVICE:
		return "TRANSCRIPTION_SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Severity says whether an error aborts the current file's processing or is
// recorded on the record and processing continues.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityFatal
)
