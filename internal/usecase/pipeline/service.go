// Package pipeline orchestrates per-recording processing: filename parsing,
// transcription/diarization, schedule segmentation, alignment, content
// generation and persistence.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/adapter/repository"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
	"github.com/ientropic/ClassCodex/internal/infrastructure/external/speech"
	"github.com/ientropic/ClassCodex/internal/output"
	"github.com/ientropic/ClassCodex/internal/usecase/align"
	"github.com/ientropic/ClassCodex/internal/usecase/assemble"
	"github.com/ientropic/ClassCodex/internal/usecase/schedule"
	"github.com/ientropic/ClassCodex/pkg/config"
)

// Generator is the summary/highlight black box as the pipeline sees it.
type Generator interface {
	Generate(ctx context.Context, promptTemplate, transcript string) (string, error)
}

// HighlightParser splits a raw highlight response into individual entries.
type HighlightParser func(raw string) []string

// Service runs the batch pipeline over an incoming directory. All core
// computations are pure functions over the file's data; the only shared
// state is the per-course collection, which the repository serializes.
type Service struct {
	cfg             *config.Config
	speech          speech.Processor
	generator       Generator
	parseHighlights HighlightParser
	courseRepo      *repository.CourseRepository
	recordingRepo   *repository.RecordingRepository
	segmenter       *schedule.Segmenter
	aligner         *align.Aligner
	assembler       *assemble.Assembler
	logger          *zap.Logger

	// Worker pool: limit concurrent file processing.
	sem chan struct{}
}

// NewService constructs the pipeline service.
func NewService(
	cfg *config.Config,
	speechProc speech.Processor,
	generator Generator,
	parseHighlights HighlightParser,
	courseRepo *repository.CourseRepository,
	recordingRepo *repository.RecordingRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	matcher := schedule.NewMatcher(time.Duration(cfg.App.ToleranceMinutes)*time.Minute, logger)
	return &Service{
		cfg:             cfg,
		speech:          speechProc,
		generator:       generator,
		parseHighlights: parseHighlights,
		courseRepo:      courseRepo,
		recordingRepo:   recordingRepo,
		segmenter:       schedule.NewSegmenter(matcher, logger),
		aligner:         align.NewAligner(logger),
		assembler:       assemble.NewAssembler(),
		logger:          logger,
		sem:             make(chan struct{}, cfg.App.Workers),
	}
}

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
}

// Run processes every audio file in the incoming directory. One file's
// failure never halts the batch: failed files are flagged in the log and
// left in place.
func (s *Service) Run(ctx context.Context) error {
	entries, err := os.ReadDir(s.cfg.App.IncomingDir)
	if err != nil {
		return fmt.Errorf("failed to read incoming directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(s.cfg.App.IncomingDir, e.Name()))
	}

	if len(files) == 0 {
		s.logger.Info("no recordings waiting in incoming directory")
		return nil
	}

	var wg sync.WaitGroup
	var failed sync.Map
	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			s.sem <- struct{}{}
			defer func() { <-s.sem }()

			if err := s.ProcessFile(ctx, path); err != nil {
				failed.Store(path, err)
				s.logger.Error("recording processing failed; file left in incoming",
					zap.String("file", filepath.Base(path)),
					zap.String("code", apperrors.CodeOf(err).String()),
					zap.Error(err),
				)
			}
		}(path)
	}
	wg.Wait()

	failures := 0
	failed.Range(func(_, _ interface{}) bool { failures++; return true })
	s.logger.Info("batch complete",
		zap.Int("total", len(files)),
		zap.Int("processed", len(files)-failures),
		zap.Int("failed", failures),
	)
	return nil
}

// ProcessFile runs one recording through the whole pipeline and moves it to
// the processed directory on success.
func (s *Service) ProcessFile(ctx context.Context, path string) error {
	filename := filepath.Base(path)

	ts, err := entities.ParseRecordingFilename(filename)
	if err != nil {
		return err
	}

	courses, err := s.courseRepo.LoadCourses()
	if err != nil {
		return err
	}

	utterances, turns, err := s.speech.Process(ctx, path)
	if err != nil {
		return err
	}

	duration := recordingDuration(utterances, turns)
	segments, match := s.segmenter.Segment(ts, duration, courses)
	s.logger.Info("recording matched against schedules",
		zap.String("file", filename),
		zap.String("match", match.Kind.String()),
		zap.Int("segments", len(segments)),
	)

	// Whole-recording subtitle artifact, one entry per labeled utterance.
	if err := s.writeSubtitles(path, utterances, turns); err != nil {
		s.logger.Warn("failed to write subtitle artifact", zap.Error(err))
	}

	for _, seg := range segments {
		if err := s.processSegment(ctx, filename, ts, seg, utterances, turns, match.Warnings); err != nil {
			return err
		}
	}

	return s.moveToProcessed(path)
}

func (s *Service) processSegment(
	ctx context.Context,
	filename string,
	ts entities.RecordingTimestamp,
	seg schedule.RecordingSegment,
	utterances []entities.Utterance,
	turns []entities.SpeakerTurn,
	matchWarnings []apperrors.AppError,
) error {
	segUtts := align.ClipUtterances(utterances, seg.Start, seg.End)
	segTurns := align.ClipTurns(turns, seg.Start, seg.End)

	labeled, gapWarnings := s.aligner.Align(segUtts, segTurns)
	warnings := append(append([]apperrors.AppError{}, matchWarnings...), gapWarnings...)

	transcript := assemble.RenderTranscript(labeled, nil)
	summary, highlights, pending := s.generate(ctx, transcript)
	if pending {
		warnings = append(warnings, apperrors.ErrGenerationService(nil))
	}

	rec := s.assembler.Assemble(assemble.Input{
		SourceFile:        filename,
		Timestamp:         ts,
		Course:            seg.Course,
		SegmentStart:      seg.Start,
		SegmentEnd:        seg.End,
		Utterances:        labeled,
		Summary:           summary,
		Highlights:        highlights,
		PendingGeneration: pending,
		Warnings:          warnings,
	})

	if err := s.recordingRepo.Append(rec); err != nil {
		return err
	}

	s.logger.Info("record persisted",
		zap.String("file", filename),
		zap.String("course", rec.CourseName()),
		zap.Float64("segment_start", seg.Start),
		zap.Float64("segment_end", seg.End),
		zap.Bool("pending_generation", pending),
	)
	return nil
}

// generate calls the generation black box with retries. Failure is
// recoverable: the record persists with empty fields and a retry marker.
func (s *Service) generate(ctx context.Context, transcript string) (summary string, highlights []string, pending bool) {
	if s.generator == nil || strings.TrimSpace(transcript) == "" {
		return "", nil, false
	}

	summary, err := s.generateWithRetry(ctx, s.cfg.App.SummaryPrompt, transcript)
	if err != nil {
		s.logger.Warn("summary generation failed, record will be flagged for retry", zap.Error(err))
		return "", nil, true
	}

	rawHighlights, err := s.generateWithRetry(ctx, s.cfg.App.HighlightsPrompt, transcript)
	if err != nil {
		s.logger.Warn("highlight generation failed, record will be flagged for retry", zap.Error(err))
		return "", nil, true
	}

	if s.parseHighlights != nil {
		highlights = s.parseHighlights(rawHighlights)
	} else {
		highlights = strings.Split(strings.TrimSpace(rawHighlights), "\n")
	}
	return summary, highlights, false
}

func (s *Service) generateWithRetry(ctx context.Context, promptTemplate, transcript string) (string, error) {
	var result string
	op := func() error {
		var err error
		result, err = s.generator.Generate(ctx, promptTemplate, transcript)
		return err
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.cfg.Generation.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return "", err
	}
	return result, nil
}

func (s *Service) writeSubtitles(audioPath string, utterances []entities.Utterance, turns []entities.SpeakerTurn) error {
	labeled, _ := s.aligner.Align(utterances, turns)
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if err := os.MkdirAll(s.cfg.App.ProcessedDir, 0o755); err != nil {
		return err
	}
	return output.WriteSRT(filepath.Join(s.cfg.App.ProcessedDir, stem+".srt"), labeled)
}

func (s *Service) moveToProcessed(path string) error {
	if err := os.MkdirAll(s.cfg.App.ProcessedDir, 0o755); err != nil {
		return apperrors.ErrInternal(err)
	}
	dest := filepath.Join(s.cfg.App.ProcessedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return apperrors.ErrInternal(err)
	}
	return nil
}

// recordingDuration derives the recording length from the model outputs;
// the audio itself is never probed here.
func recordingDuration(utterances []entities.Utterance, turns []entities.SpeakerTurn) time.Duration {
	end := 0.0
	for _, u := range utterances {
		if u.End > end {
			end = u.End
		}
	}
	for _, t := range turns {
		if t.End > end {
			end = t.End
		}
	}
	return time.Duration(end * float64(time.Second))
}
