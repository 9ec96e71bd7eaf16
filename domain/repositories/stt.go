package repositories

import "context"

// TranscriptionProvider abstracts pre-recorded speech-to-text services
type TranscriptionProvider interface {
	// Transcribe sends audio data to the provider and returns its decoded response
	Transcribe(ctx context.Context, audioData []byte, options TranscribeOptions) (ProviderResponse, error)
}

// TranscribeOptions represents the options sent with a transcription request
type TranscribeOptions struct {
	Model       string `json:"model"`
	SmartFormat bool   `json:"smart_format"`
	MimeType    string `json:"mimetype"`
}

// ProviderResponse is the decoded JSON document returned by a provider.
// Providers that do not speak the channel/alternative shape natively
// build one with NewChannelResponse.
type ProviderResponse map[string]interface{}

// NewChannelResponse builds a single-channel response in the
// results.channels[].alternatives[] shape
func NewChannelResponse(transcripts ...string) ProviderResponse {
	alternatives := make([]interface{}, 0, len(transcripts))
	for _, transcript := range transcripts {
		alternatives = append(alternatives, map[string]interface{}{
			"transcript": transcript,
		})
	}

	return ProviderResponse{
		"results": map[string]interface{}{
			"channels": []interface{}{
				map[string]interface{}{
					"alternatives": alternatives,
				},
			},
		},
	}
}
