package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

const (
	defaultDeepgramHost    = "https://api.deepgram.com"
	defaultProviderTimeout = 60 * time.Second
)

var initDeepgramSDK sync.Once

// DeepgramConfig holds configuration for the Deepgram adapter
type DeepgramConfig struct {
	APIKey  string        // Required: Deepgram API key
	Host    string        // Optional: API host, defaults to https://api.deepgram.com
	Timeout time.Duration // Optional: bounds each request, defaults to 60s
}

// ValidateDeepgramConfig validates the DeepgramConfig
func ValidateDeepgramConfig(config DeepgramConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("deepgram API key is required")
	}

	if config.Host != "" {
		if _, err := url.Parse(config.Host); err != nil {
			return fmt.Errorf("invalid deepgram host %q: %w", config.Host, err)
		}
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}

	return nil
}

// prerecordedClient is the part of the Deepgram listen REST client the
// adapter uses
type prerecordedClient interface {
	DoStream(ctx context.Context, src io.Reader, options *interfaces.PreRecordedTranscriptionOptions, resBody interface{}) error
}

// DeepgramProvider implements TranscriptionProvider using Deepgram's
// pre-recorded audio API
type DeepgramProvider struct {
	client  prerecordedClient
	host    string
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure DeepgramProvider implements the TranscriptionProvider interface
var _ repositories.TranscriptionProvider = (*DeepgramProvider)(nil)

// NewDeepgramProvider creates a new Deepgram provider
func NewDeepgramProvider(config DeepgramConfig, logger *zap.Logger) (*DeepgramProvider, error) {
	if err := ValidateDeepgramConfig(config); err != nil {
		return nil, err
	}

	initDeepgramSDK.Do(listen.InitWithDefault)

	host := config.Host
	if host == "" {
		host = defaultDeepgramHost
		logger.Info("Using default Deepgram host", zap.String("host", host))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultProviderTimeout
	}

	client := listen.NewREST(config.APIKey, &interfaces.ClientOptions{
		APIKey: config.APIKey,
		Host:   host,
	})

	return &DeepgramProvider{
		client:  client,
		host:    host,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Transcribe implements repositories.TranscriptionProvider. The raw JSON
// document is decoded as is so every response shape reaches extraction.
func (d *DeepgramProvider) Transcribe(ctx context.Context, audioData []byte, options repositories.TranscribeOptions) (repositories.ProviderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ctx = interfaces.WithCustomHeaders(ctx, http.Header{
		"Content-Type": []string{options.MimeType},
	})

	d.logger.Debug("Sending audio to Deepgram",
		zap.String("model", options.Model),
		zap.String("mimetype", options.MimeType),
		zap.Int("audioSize", len(audioData)))

	var result repositories.ProviderResponse
	err := d.client.DoStream(ctx, bytes.NewReader(audioData), &interfaces.PreRecordedTranscriptionOptions{
		Model:       options.Model,
		SmartFormat: options.SmartFormat,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("deepgram transcription failed: %w", err)
	}

	return result, nil
}
