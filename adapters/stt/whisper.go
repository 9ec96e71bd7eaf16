package stt

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// WhisperConfig holds configuration for the OpenAI Whisper transcriber
type WhisperConfig struct {
	APIKey  string        // Required: OpenAI API key
	Timeout time.Duration // Optional: HTTP client timeout, defaults to 60s
}

// WhisperTranscriber implements TranscriptionProvider using OpenAI's
// audio transcription endpoint
type WhisperTranscriber struct {
	client *openai.Client
	logger *zap.Logger
}

var _ repositories.TranscriptionProvider = (*WhisperTranscriber)(nil)

// NewWhisperTranscriber creates a new Whisper transcriber
func NewWhisperTranscriber(config WhisperConfig, logger *zap.Logger) (*WhisperTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultProviderTimeout
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}, nil
}

// Transcribe implements repositories.TranscriptionProvider
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioData []byte, options repositories.TranscribeOptions) (repositories.ProviderResponse, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: whisperFilename(options.MimeType),
		Reader:   bytes.NewReader(audioData),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription: %w", err)
	}

	w.logger.Debug("Whisper transcription completed", zap.Int("length", len(resp.Text)))

	return repositories.NewChannelResponse(resp.Text), nil
}

// whisperFilename names the upload; OpenAI infers the format from the extension
func whisperFilename(mimeType string) string {
	mediaType, _, _ := mime.ParseMediaType(mimeType)

	switch mediaType {
	case "audio/wav":
		return "audio.wav"
	case "audio/mpeg":
		return "audio.mp3"
	case "audio/ogg":
		return "audio.ogg"
	default:
		return "audio.webm"
	}
}
