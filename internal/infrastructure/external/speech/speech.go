// Package speech wraps the transcription and diarization services. The
// models themselves are black boxes: the pipeline only sees timed utterances
// and speaker turns in seconds relative to the recording start.
package speech

import (
	"context"

	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// Processor produces both time-aligned streams for one audio file.
type Processor interface {
	// Process returns the transcribed utterances and the diarization
	// speaker turns, each ordered by start offset.
	Process(ctx context.Context, audioPath string) ([]entities.Utterance, []entities.SpeakerTurn, error)
}
