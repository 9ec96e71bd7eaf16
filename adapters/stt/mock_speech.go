package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// MockSpeechToText is a placeholder provider for local development
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text provider
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// Transcribe implements repositories.TranscriptionProvider
func (s *MockSpeechToText) Transcribe(ctx context.Context, audioData []byte, options repositories.TranscribeOptions) (repositories.ProviderResponse, error) {
	s.logger.Info("Processing mock speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.String("model", options.Model),
		zap.String("mimetype", options.MimeType))

	// Mock transcription based on audio size
	switch {
	case len(audioData) > 10000:
		return repositories.NewChannelResponse("This is a longer mock transcript of the uploaded recording."), nil
	case len(audioData) > 1000:
		return repositories.NewChannelResponse("Hello from the mock transcriber."), nil
	default:
		return repositories.NewChannelResponse("Hello"), nil
	}
}
