package usecase

import (
	"fmt"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// TranscriptExtractor pulls a transcript out of a provider response.
// It reports false when its path does not resolve to a usable value, and an
// error when the path holds a value that is present but not a string.
type TranscriptExtractor func(response repositories.ProviderResponse) (string, bool, error)

// DefaultExtractors are tried in order; the first one that resolves wins.
// Both shapes are kept since providers have returned either of them.
var DefaultExtractors = []TranscriptExtractor{
	ChannelTranscript,
	LegacyChannelTranscript,
}

// ChannelTranscript reads results.channels[0].alternatives[0].transcript
func ChannelTranscript(response repositories.ProviderResponse) (string, bool, error) {
	return stringAt(response, "results", "channels", 0, "alternatives", 0, "transcript")
}

// LegacyChannelTranscript reads channels[0].alternatives[0].transcript
func LegacyChannelTranscript(response repositories.ProviderResponse) (string, bool, error) {
	return stringAt(response, "channels", 0, "alternatives", 0, "transcript")
}

// ExtractTranscript returns the transcript of the first extractor that
// resolves, or the empty string. A malformed transcript stops the search.
func ExtractTranscript(response repositories.ProviderResponse, extractors ...TranscriptExtractor) (string, error) {
	for _, extract := range extractors {
		transcript, ok, err := extract(response)
		if err != nil {
			return "", err
		}
		if ok {
			return transcript, nil
		}
	}
	return "", nil
}

// stringAt walks a decoded JSON document. Path elements are object keys
// (string) or array indexes (int). Missing nodes and empty values (null,
// "", false, 0) are unresolved; any other non-string value is an error.
func stringAt(response repositories.ProviderResponse, path ...interface{}) (string, bool, error) {
	var node interface{} = map[string]interface{}(response)

	for _, step := range path {
		switch key := step.(type) {
		case string:
			object, ok := node.(map[string]interface{})
			if !ok {
				return "", false, nil
			}
			if node, ok = object[key]; !ok {
				return "", false, nil
			}
		case int:
			array, ok := node.([]interface{})
			if !ok || key < 0 || key >= len(array) {
				return "", false, nil
			}
			node = array[key]
		default:
			return "", false, nil
		}
	}

	switch value := node.(type) {
	case string:
		return value, value != "", nil
	case nil:
		return "", false, nil
	case bool:
		if !value {
			return "", false, nil
		}
	case float64:
		if value == 0 {
			return "", false, nil
		}
	}
	return "", false, fmt.Errorf("transcript is %T, not a string", node)
}
