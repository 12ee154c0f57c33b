package speech

import (
	"context"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
	"github.com/ientropic/ClassCodex/pkg/config"
)

// utteranceGapSeconds splits the word stream into utterances when the pause
// between words exceeds it.
const utteranceGapSeconds = 0.8

// AssemblyAIProcessor implements Processor with a single speaker-labeled
// transcription job: word timings become the utterance stream, the
// service's speaker segments become the turn stream.
type AssemblyAIProcessor struct {
	client *aai.Client
	logger *zap.Logger
}

// NewAssemblyAIProcessor constructs a processor from config.
func NewAssemblyAIProcessor(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAIProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssemblyAIProcessor{
		client: aai.NewClient(cfg.APIKey),
		logger: logger,
	}
}

// Process uploads the audio and runs one speaker-labeled transcription.
func (p *AssemblyAIProcessor) Process(ctx context.Context, audioPath string) ([]entities.Utterance, []entities.SpeakerTurn, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, nil, apperrors.ErrTranscriptionService(err)
	}
	defer f.Close()

	uploadURL, err := p.client.Upload(ctx, f)
	if err != nil {
		return nil, nil, apperrors.ErrTranscriptionService(err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	transcript, err := p.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, nil, apperrors.ErrTranscriptionService(err)
	}

	utterances := utterancesFromWords(transcript.Words)
	turns := turnsFromUtterances(transcript.Utterances)

	p.logger.Info("transcription complete",
		zap.String("audio", audioPath),
		zap.Int("utterances", len(utterances)),
		zap.Int("speaker_turns", len(turns)),
	)
	return utterances, turns, nil
}

// utterancesFromWords groups the word timeline into utterances, splitting on
// long pauses or sentence-final punctuation. Timestamps arrive as
// milliseconds and are converted to seconds.
func utterancesFromWords(words []aai.TranscriptWord) []entities.Utterance {
	var out []entities.Utterance
	var cur *entities.Utterance
	var texts []string

	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(texts, " ")
			out = append(out, *cur)
			cur = nil
			texts = nil
		}
	}

	for _, w := range words {
		if w.Text == nil || w.Start == nil || w.End == nil {
			continue
		}
		start := float64(*w.Start) / 1000.0
		end := float64(*w.End) / 1000.0
		text := *w.Text

		if cur != nil && start-cur.End > utteranceGapSeconds {
			flush()
		}
		if cur == nil {
			cur = &entities.Utterance{Start: start, End: end}
		}
		cur.End = end
		texts = append(texts, text)

		if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "?") || strings.HasSuffix(text, "!") {
			flush()
		}
	}
	flush()
	return out
}

func turnsFromUtterances(utts []aai.TranscriptUtterance) []entities.SpeakerTurn {
	turns := make([]entities.SpeakerTurn, 0, len(utts))
	for _, u := range utts {
		if u.Start == nil || u.End == nil || u.Speaker == nil {
			continue
		}
		turns = append(turns, entities.SpeakerTurn{
			Start:   float64(*u.Start) / 1000.0,
			End:     float64(*u.End) / 1000.0,
			Speaker: entities.SpeakerID("SPEAKER_" + *u.Speaker),
		})
	}
	return turns
}
