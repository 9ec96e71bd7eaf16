package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Transcription providers
const (
	ProviderDeepgram = "deepgram"
	ProviderGoogle   = "google"
	ProviderGemini   = "gemini"
	ProviderWhisper  = "whisper"
	ProviderMock     = "mock"
)

// Store backends
const (
	StoreSupabase = "supabase"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
	StoreNone     = "none"
)

// Config is the process configuration, loaded once at startup
type Config struct {
	Port             string
	CORSAllowOrigins []string
	MaxUploadSize    string
	LogLevel         zapcore.Level

	Provider        string
	Model           string
	ProviderTimeout time.Duration

	DeepgramAPIKey     string
	DeepgramHost       string
	GoogleLanguage     string
	GoogleModel        string
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string

	StoreBackend  string
	SupabaseURL   string
	SupabaseKey   string
	SupabaseTable string
	MongoURI      string
	MongoDatabase string
}

// Load reads .env files when present and builds the Config from the
// process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return FromEnv()
}

// FromEnv builds the Config from the process environment and validates it
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		MaxUploadSize:    getEnv("MAX_UPLOAD_SIZE", "25M"),

		Provider: strings.ToLower(getEnv("TRANSCRIPTION_PROVIDER", ProviderDeepgram)),
		Model:    getEnv("TRANSCRIPTION_MODEL", "general"),

		DeepgramAPIKey:     os.Getenv("DEEPGRAM_API_KEY"),
		DeepgramHost:       os.Getenv("DEEPGRAM_HOST"),
		GoogleLanguage:     os.Getenv("GOOGLE_SPEECH_LANGUAGE"),
		GoogleModel:        os.Getenv("GOOGLE_SPEECH_MODEL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", StoreSupabase)),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		SupabaseTable: getEnv("SUPABASE_TABLE", "transcriptions"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: os.Getenv("MONGODB_DATABASE"),
	}

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	timeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.ProviderTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected provider and store have their credentials
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}

	switch c.Provider {
	case ProviderDeepgram:
		if c.DeepgramAPIKey == "" {
			return errors.New("DEEPGRAM_API_KEY is required for the deepgram provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderWhisper:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the whisper provider")
		}
	case ProviderGoogle, ProviderMock:
	default:
		return fmt.Errorf("unknown TRANSCRIPTION_PROVIDER %q", c.Provider)
	}

	switch c.StoreBackend {
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
	case StoreMongo, StoreMemory, StoreNone:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
