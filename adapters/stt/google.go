package stt

import (
	"context"
	"fmt"
	"mime"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

const defaultGoogleLanguage = "en-US"

// GoogleConfig holds configuration for the Google Cloud Speech adapter.
// Credentials come from Application Default Credentials.
type GoogleConfig struct {
	Language string // Optional: BCP-47 language code, defaults to en-US
	Model    string // Optional: Google recognition model, e.g. "latest_long"
}

// GoogleSpeechToText implements TranscriptionProvider for Google Cloud
type GoogleSpeechToText struct {
	client   *speech.Client
	language string
	model    string
	logger   *zap.Logger
}

var _ repositories.TranscriptionProvider = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud Speech client
func NewGoogleSpeechToText(ctx context.Context, config GoogleConfig, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	language := config.Language
	if language == "" {
		language = defaultGoogleLanguage
		logger.Info("Using default Google speech language", zap.String("language", language))
	}

	return &GoogleSpeechToText{
		client:   client,
		language: language,
		model:    config.Model,
		logger:   logger,
	}, nil
}

// Transcribe implements repositories.TranscriptionProvider. The relay's
// model identifier names a Deepgram model, so the configured Google model
// is used instead.
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audioData []byte, options repositories.TranscribeOptions) (repositories.ProviderResponse, error) {
	encoding, err := getAudioEncoding(options.MimeType)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encoding,
			LanguageCode:               g.language,
			Model:                      g.model,
			EnableAutomaticPunctuation: options.SmartFormat,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recognize audio: %w", err)
	}

	g.logger.Debug("Google recognition completed", zap.Int("results", len(resp.Results)))

	return recognizeResponseToChannels(resp), nil
}

// Close closes the underlying gRPC connection
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// recognizeResponseToChannels joins the best alternative of each result
// into a single first-channel transcript. Google splits long audio into
// consecutive results.
func recognizeResponseToChannels(resp *speechpb.RecognizeResponse) repositories.ProviderResponse {
	var transcript string
	for _, result := range resp.GetResults() {
		if len(result.Alternatives) == 0 {
			continue
		}
		if transcript != "" {
			transcript += " "
		}
		transcript += result.Alternatives[0].Transcript
	}

	return repositories.NewChannelResponse(transcript)
}

// getAudioEncoding converts a MIME type to the Google Speech API enum.
// WAV carries its own header, so the encoding is left unspecified.
func getAudioEncoding(mimeType string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("invalid mimetype %q: %w", mimeType, err)
	}

	switch mediaType {
	case "audio/wav":
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, nil
	case "audio/mpeg":
		return speechpb.RecognitionConfig_MP3, nil
	case "audio/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	case "audio/ogg":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", mimeType)
	}
}
