package stt

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	"go.uber.org/zap/zaptest"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

func TestNewDeepgramProvider(t *testing.T) {
	logger := zaptest.NewLogger(t)

	if _, err := NewDeepgramProvider(DeepgramConfig{}, logger); err == nil {
		t.Error("Expected error when API key is not set")
	}

	if _, err := NewDeepgramProvider(DeepgramConfig{APIKey: "key", Timeout: -time.Second}, logger); err == nil {
		t.Error("Expected error for negative timeout")
	}

	provider, err := NewDeepgramProvider(DeepgramConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create DeepgramProvider: %v", err)
	}

	if provider.host != defaultDeepgramHost {
		t.Errorf("Expected default host '%s', got '%s'", defaultDeepgramHost, provider.host)
	}

	if provider.timeout != defaultProviderTimeout {
		t.Errorf("Expected default timeout %s, got %s", defaultProviderTimeout, provider.timeout)
	}
}

func TestDeepgramProvider_Transcribe(t *testing.T) {
	audio := []byte("fake-webm-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/listen" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}

		if got := r.URL.Query().Get("model"); got != "general" {
			t.Errorf("Expected model 'general', got '%s'", got)
		}

		if got := r.URL.Query().Get("smart_format"); got != "true" {
			t.Errorf("Expected smart_format 'true', got '%s'", got)
		}

		if got := r.Header.Get("Authorization"); !strings.EqualFold(got, "Token test-api-key") {
			t.Errorf("Expected token authorization, got '%s'", got)
		}

		if got := r.Header.Get("Content-Type"); got != "audio/webm;codecs=opus" {
			t.Errorf("Expected content type 'audio/webm;codecs=opus', got '%s'", got)
		}

		body, _ := io.ReadAll(r.Body)
		if string(body) != string(audio) {
			t.Errorf("Expected audio body to be forwarded unchanged")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata":{"request_id":"abc"},"results":{"channels":[{"alternatives":[{"transcript":"hello world","confidence":0.98}]}]}}`))
	}))
	defer server.Close()

	provider, err := NewDeepgramProvider(DeepgramConfig{
		APIKey: "test-api-key",
		Host:   server.URL,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create DeepgramProvider: %v", err)
	}

	response, err := provider.Transcribe(context.Background(), audio, repositories.TranscribeOptions{
		Model:       "general",
		SmartFormat: true,
		MimeType:    "audio/webm;codecs=opus",
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	results, ok := response["results"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected results object in response, got %v", response)
	}

	channels, ok := results["channels"].([]interface{})
	if !ok || len(channels) != 1 {
		t.Errorf("Expected one channel, got %v", results["channels"])
	}
}

func TestDeepgramProvider_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err_code":"Bad Request","err_msg":"Bad Request: failed to process audio: corrupt or unsupported data","request_id":"abc"}`))
	}))
	defer server.Close()

	provider, err := NewDeepgramProvider(DeepgramConfig{APIKey: "key", Host: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create DeepgramProvider: %v", err)
	}

	if _, err := provider.Transcribe(context.Background(), []byte("x"), repositories.TranscribeOptions{MimeType: "audio/wav"}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestDeepgramProvider_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer server.Close()

	provider, err := NewDeepgramProvider(DeepgramConfig{APIKey: "key", Host: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create DeepgramProvider: %v", err)
	}

	if _, err := provider.Transcribe(context.Background(), []byte("x"), repositories.TranscribeOptions{MimeType: "audio/wav"}); err == nil {
		t.Error("Expected error for undecodable response")
	}
}

type fakePrerecordedClient struct {
	audio   []byte
	options *interfaces.PreRecordedTranscriptionOptions
	body    string
	err     error
}

func (f *fakePrerecordedClient) DoStream(ctx context.Context, src io.Reader, options *interfaces.PreRecordedTranscriptionOptions, resBody interface{}) error {
	f.options = options
	f.audio, _ = io.ReadAll(src)
	if f.err != nil {
		return f.err
	}
	out := resBody.(*repositories.ProviderResponse)
	*out = repositories.ProviderResponse{"channels": []interface{}{f.body}}
	return nil
}

func TestDeepgramProvider_ForwardsOptions(t *testing.T) {
	fake := &fakePrerecordedClient{body: "ok"}
	provider := &DeepgramProvider{client: fake, timeout: time.Second, logger: zaptest.NewLogger(t)}

	response, err := provider.Transcribe(context.Background(), []byte("pcm"), repositories.TranscribeOptions{
		Model:       "nova-2",
		SmartFormat: true,
		MimeType:    "audio/wav",
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if fake.options.Model != "nova-2" || !fake.options.SmartFormat {
		t.Errorf("Unexpected options forwarded: %+v", fake.options)
	}

	if string(fake.audio) != "pcm" {
		t.Errorf("Expected audio 'pcm', got '%s'", fake.audio)
	}

	if _, ok := response["channels"]; !ok {
		t.Errorf("Expected decoded response, got %v", response)
	}
}

func TestDeepgramProvider_WrapsClientError(t *testing.T) {
	cause := errors.New("connection reset")
	provider := &DeepgramProvider{
		client:  &fakePrerecordedClient{err: cause},
		timeout: time.Second,
		logger:  zaptest.NewLogger(t),
	}

	_, err := provider.Transcribe(context.Background(), []byte("x"), repositories.TranscribeOptions{MimeType: "audio/wav"})
	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
}
