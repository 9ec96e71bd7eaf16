package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/entities"
	"github.com/voxscribe/transcribe-relay/domain/repositories"
	"github.com/voxscribe/transcribe-relay/internal/metrics"
)

// DefaultModel is the provider model used when none is configured
const DefaultModel = "general"

// Messages returned to clients
const (
	MessageNoAudio          = "No audio file uploaded."
	MessageEmptyAudio       = "Audio buffer is empty."
	MessageEmptyTranscript  = "Transcript is empty."
	MessageProcessingFailed = "⚠️ Could not process audio, please try again."
)

// RelayError is the single failure type produced by TranscriptionService.
// Message is safe to return to clients; Err is for logs only.
type RelayError struct {
	Status  int
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func badRequest(message string) *RelayError {
	return &RelayError{Status: http.StatusBadRequest, Message: message}
}

func internalError(err error) *RelayError {
	return &RelayError{Status: http.StatusInternalServerError, Message: MessageProcessingFailed, Err: err}
}

// Result is the outcome of a successful transcription.
// PersistErr reports a failed best-effort insert and never fails the request.
type Result struct {
	Transcript string
	Persisted  []*entities.Transcription
	PersistErr error
}

// TranscriptionService relays uploads to a transcription provider
type TranscriptionService struct {
	provider   repositories.TranscriptionProvider
	repository repositories.TranscriptionRepository
	model      string
	extractors []TranscriptExtractor
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewTranscriptionService creates a new transcription service.
// repository may be nil, in which case transcripts are not persisted.
func NewTranscriptionService(
	provider repositories.TranscriptionProvider,
	repository repositories.TranscriptionRepository,
	model string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TranscriptionService {
	if model == "" {
		model = DefaultModel
	}

	return &TranscriptionService{
		provider:   provider,
		repository: repository,
		model:      model,
		extractors: DefaultExtractors,
		metrics:    m,
		logger:     logger,
	}
}

// Transcribe runs the relay pipeline for one upload. A nil upload means the
// request carried no audio file. Every failure is returned as a *RelayError.
func (s *TranscriptionService) Transcribe(ctx context.Context, upload *entities.Upload) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, internalError(fmt.Errorf("panic while processing audio: %v", r))
		}

		var relayErr *RelayError
		switch {
		case err == nil:
			s.metrics.RecordRequest(metrics.OutcomeSuccess)
		case errors.As(err, &relayErr) && relayErr.Status < http.StatusInternalServerError:
			s.metrics.RecordRequest(metrics.OutcomeClientError)
		default:
			s.metrics.RecordRequest(metrics.OutcomeServerError)
			s.logger.Error("Transcription error", zap.Error(err))
		}
	}()

	return s.transcribe(ctx, upload)
}

func (s *TranscriptionService) transcribe(ctx context.Context, upload *entities.Upload) (*Result, error) {
	if upload == nil {
		return nil, badRequest(MessageNoAudio)
	}

	s.logger.Info("File received",
		zap.String("filename", upload.Filename),
		zap.String("mimetype", upload.MimeType),
		zap.Int64("size", upload.Size))

	if upload.IsEmpty() {
		return nil, badRequest(MessageEmptyAudio)
	}
	s.metrics.RecordUpload(len(upload.Data))

	// The provider call outlives a disconnected client
	ctx = context.WithoutCancel(ctx)

	options := repositories.TranscribeOptions{
		Model:       s.model,
		SmartFormat: true,
		MimeType:    ResolveMimeType(upload.MimeType),
	}

	start := time.Now()
	response, err := s.provider.Transcribe(ctx, upload.Data, options)
	s.metrics.RecordProviderCall(time.Since(start), err)
	if err != nil {
		return nil, internalError(fmt.Errorf("transcription failed: %w", err))
	}

	s.logger.Debug("Provider result received",
		zap.String("mimetype", options.MimeType),
		zap.Any("result", response))

	transcript, err := ExtractTranscript(response, s.extractors...)
	if err != nil {
		return nil, internalError(fmt.Errorf("malformed provider response: %w", err))
	}

	extracted := &entities.TranscriptionResult{Transcript: transcript}
	if extracted.IsEmpty() {
		return nil, badRequest(MessageEmptyTranscript)
	}

	result := &Result{Transcript: extracted.Transcript}
	result.Persisted, result.PersistErr = s.persist(ctx, extracted.Transcript)

	return result, nil
}

// persist stores the transcript. Failures are logged and counted only.
func (s *TranscriptionService) persist(ctx context.Context, transcript string) ([]*entities.Transcription, error) {
	if s.repository == nil {
		return nil, nil
	}

	rows, err := s.repository.Insert(ctx, entities.NewTranscription(transcript))
	s.metrics.RecordPersistence(err)
	if err != nil {
		s.logger.Error("Transcription insert error", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Transcription saved", zap.Int("rows", len(rows)))
	return rows, nil
}
