package stt

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

const (
	defaultGeminiModel     = "gemini-2.0-flash"
	geminiTranscribePrompt = "Transcribe this audio verbatim. Reply with the transcript only, " +
		"using punctuation and capitalization. Reply with an empty message if there is no speech."
)

// GeminiConfig holds configuration for the Gemini transcriber
type GeminiConfig struct {
	APIKey string // Required: Google AI API key
	Model  string // Optional: defaults to gemini-2.0-flash
}

// GeminiTranscriber implements TranscriptionProvider using Gemini's
// audio understanding
type GeminiTranscriber struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.TranscriptionProvider = (*GeminiTranscriber)(nil)

// NewGeminiTranscriber creates a new Gemini transcriber
func NewGeminiTranscriber(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default Gemini model", zap.String("model", model))
	}

	return &GeminiTranscriber{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe implements repositories.TranscriptionProvider
func (g *GeminiTranscriber) Transcribe(ctx context.Context, audioData []byte, options repositories.TranscribeOptions) (repositories.ProviderResponse, error) {
	// Gemini rejects codec parameters on inline data
	mediaType, _, err := mime.ParseMediaType(options.MimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid mimetype %q: %w", options.MimeType, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(geminiTranscribePrompt),
			genai.NewPartFromBytes(audioData, mediaType),
		}, genai.RoleUser),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate transcript: %w", err)
	}

	return repositories.NewChannelResponse(candidateText(response)), nil
}

// candidateText concatenates the text parts of the first candidate
func candidateText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(text.String())
}
