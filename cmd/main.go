package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/adapters"
	"github.com/voxscribe/transcribe-relay/adapters/mongo"
	"github.com/voxscribe/transcribe-relay/adapters/stt"
	"github.com/voxscribe/transcribe-relay/adapters/supabase"
	"github.com/voxscribe/transcribe-relay/domain/repositories"
	"github.com/voxscribe/transcribe-relay/internal/api"
	"github.com/voxscribe/transcribe-relay/internal/config"
	"github.com/voxscribe/transcribe-relay/internal/metrics"
	"github.com/voxscribe/transcribe-relay/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize adapters
	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize transcription provider", zap.String("provider", cfg.Provider), zap.Error(err))
	}
	defer closeProvider()

	repository, closeRepository, err := newRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize transcription store", zap.String("store", cfg.StoreBackend), zap.Error(err))
	}
	defer closeRepository()

	// Initialize usecase services
	m := metrics.NewMetrics(nil)
	transcriptionService := usecase.NewTranscriptionService(provider, repository, cfg.Model, m, logger)

	e := api.NewServer(api.ServerConfig{
		AllowOrigins:  cfg.CORSAllowOrigins,
		MaxUploadSize: cfg.MaxUploadSize,
	}, logger)
	api.InitRoutes(e, transcriptionService, m, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server running",
		zap.String("url", "http://localhost:"+cfg.Port),
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.StoreBackend))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.TranscriptionProvider, func(), error) {
	noop := func() {}

	switch cfg.Provider {
	case config.ProviderDeepgram:
		provider, err := stt.NewDeepgramProvider(stt.DeepgramConfig{
			APIKey:  cfg.DeepgramAPIKey,
			Host:    cfg.DeepgramHost,
			Timeout: cfg.ProviderTimeout,
		}, logger)
		return provider, noop, err

	case config.ProviderGoogle:
		provider, err := stt.NewGoogleSpeechToText(ctx, stt.GoogleConfig{
			Language: cfg.GoogleLanguage,
			Model:    cfg.GoogleModel,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return provider, closer(provider, logger), nil

	case config.ProviderGemini:
		provider, err := stt.NewGeminiTranscriber(ctx, stt.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		return provider, noop, err

	case config.ProviderWhisper:
		provider, err := stt.NewWhisperTranscriber(stt.WhisperConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Timeout: cfg.ProviderTimeout,
		}, logger)
		return provider, noop, err

	case config.ProviderMock:
		return stt.NewMockSpeechToText(logger), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// newRepository returns a nil repository for the "none" backend, which
// disables persistence
func newRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.TranscriptionRepository, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreSupabase:
		client, err := supabase.NewClient(supabase.Config{
			URL: cfg.SupabaseURL,
			Key: cfg.SupabaseKey,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return supabase.NewTranscriptionRepository(client, cfg.SupabaseTable), noop, nil

	case config.StoreMongo:
		client, err := mongo.NewClient(ctx, mongo.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		if err := mongo.EnsureIndexes(ctx, client.Database); err != nil {
			client.Close(ctx)
			return nil, noop, err
		}
		closeClient := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(closeCtx)
		}
		return mongo.NewTranscriptionRepository(client.Database), closeClient, nil

	case config.StoreMemory:
		return adapters.NewMemoryTranscriptionRepository(), noop, nil

	case config.StoreNone:
		logger.Warn("Transcription persistence is disabled")
		return nil, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func closer(c io.Closer, logger *zap.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close client", zap.Error(err))
		}
	}
}
