package entities

// SpeakerID is the raw diarization speaker identifier (e.g. "SPEAKER_00").
// It is opaque: compared for equality, resolved to a display name through a
// SpeakerLabelMap, never string-matched for business logic.
type SpeakerID string

// UnknownSpeaker marks an utterance no diarization turn overlapped.
const UnknownSpeaker SpeakerID = "UNKNOWN_SPEAKER"

// Utterance is one contiguous transcribed speech span. Offsets are seconds
// relative to the recording (or segment) start.
type Utterance struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SpeakerTurn is one diarization-assigned span. Turns for a recording are
// non-overlapping and ordered by start; gaps may exist.
type SpeakerTurn struct {
	Start   float64   `json:"start"`
	End     float64   `json:"end"`
	Speaker SpeakerID `json:"speaker"`
}

// LabeledUtterance is an Utterance annotated with the speaker active during
// its span. Exactly one LabeledUtterance is produced per source Utterance.
type LabeledUtterance struct {
	Start   float64   `json:"start"`
	End     float64   `json:"end"`
	Speaker SpeakerID `json:"speaker"`
	Text    string    `json:"text"`
}

// SpeakerLabelMap maps raw speaker ids to user-assigned display names. It is
// a read/render-time overlay; the stored raw-id transcript is never mutated.
type SpeakerLabelMap map[SpeakerID]string

// Resolve returns the assigned display name, or the raw id when no name has
// been assigned yet.
func (m SpeakerLabelMap) Resolve(id SpeakerID) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return string(id)
}
