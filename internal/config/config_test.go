package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

var configKeys = []string{
	"PORT", "CORS_ALLOW_ORIGINS", "MAX_UPLOAD_SIZE", "LOG_LEVEL",
	"TRANSCRIPTION_PROVIDER", "TRANSCRIPTION_MODEL", "PROVIDER_TIMEOUT",
	"DEEPGRAM_API_KEY", "DEEPGRAM_HOST",
	"GOOGLE_SPEECH_LANGUAGE", "GOOGLE_SPEECH_MODEL",
	"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY",
	"STORE_BACKEND", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_TABLE",
	"MONGODB_URI", "MONGODB_DATABASE",
}

// clearEnv blanks every variable the config reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")
	t.Setenv("SUPABASE_URL", "https://xyz.supabase.co")
	t.Setenv("SUPABASE_KEY", "sb-key")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Expected default port 5000, got %s", cfg.Port)
	}

	if len(cfg.CORSAllowOrigins) != 1 || cfg.CORSAllowOrigins[0] != "*" {
		t.Errorf("Expected CORS origins [*], got %v", cfg.CORSAllowOrigins)
	}

	if cfg.MaxUploadSize != "25M" {
		t.Errorf("Expected max upload size 25M, got %s", cfg.MaxUploadSize)
	}

	if cfg.LogLevel != zapcore.InfoLevel {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}

	if cfg.Provider != ProviderDeepgram {
		t.Errorf("Expected provider %s, got %s", ProviderDeepgram, cfg.Provider)
	}

	if cfg.Model != "general" {
		t.Errorf("Expected model general, got %s", cfg.Model)
	}

	if cfg.ProviderTimeout != 60*time.Second {
		t.Errorf("Expected provider timeout 60s, got %s", cfg.ProviderTimeout)
	}

	if cfg.StoreBackend != StoreSupabase {
		t.Errorf("Expected store %s, got %s", StoreSupabase, cfg.StoreBackend)
	}

	if cfg.SupabaseTable != "transcriptions" {
		t.Errorf("Expected table transcriptions, got %s", cfg.SupabaseTable)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com, http://localhost:3000,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRANSCRIPTION_PROVIDER", "Mock")
	t.Setenv("PROVIDER_TIMEOUT", "15s")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}

	expectedOrigins := []string{"https://app.example.com", "http://localhost:3000"}
	if len(cfg.CORSAllowOrigins) != len(expectedOrigins) {
		t.Fatalf("Expected origins %v, got %v", expectedOrigins, cfg.CORSAllowOrigins)
	}
	for i, origin := range expectedOrigins {
		if cfg.CORSAllowOrigins[i] != origin {
			t.Errorf("Expected origin %s, got %s", origin, cfg.CORSAllowOrigins[i])
		}
	}

	if cfg.LogLevel != zapcore.DebugLevel {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}

	if cfg.Provider != ProviderMock {
		t.Errorf("Expected provider mock, got %s", cfg.Provider)
	}

	if cfg.ProviderTimeout != 15*time.Second {
		t.Errorf("Expected provider timeout 15s, got %s", cfg.ProviderTimeout)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing deepgram key", map[string]string{"STORE_BACKEND": "none"}},
		{"missing gemini key", map[string]string{"TRANSCRIPTION_PROVIDER": "gemini", "STORE_BACKEND": "none"}},
		{"missing openai key", map[string]string{"TRANSCRIPTION_PROVIDER": "whisper", "STORE_BACKEND": "none"}},
		{"unknown provider", map[string]string{"TRANSCRIPTION_PROVIDER": "assemblyai", "STORE_BACKEND": "none"}},
		{"missing supabase credentials", map[string]string{"TRANSCRIPTION_PROVIDER": "mock"}},
		{"unknown store", map[string]string{"TRANSCRIPTION_PROVIDER": "mock", "STORE_BACKEND": "redis"}},
		{"invalid log level", map[string]string{"TRANSCRIPTION_PROVIDER": "mock", "STORE_BACKEND": "none", "LOG_LEVEL": "loud"}},
		{"invalid timeout", map[string]string{"TRANSCRIPTION_PROVIDER": "mock", "STORE_BACKEND": "none", "PROVIDER_TIMEOUT": "soon"}},
		{"negative timeout", map[string]string{"TRANSCRIPTION_PROVIDER": "mock", "STORE_BACKEND": "none", "PROVIDER_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			if _, err := FromEnv(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are unset
	for _, key := range []string{"TRANSCRIPTION_PROVIDER", "STORE_BACKEND", "PORT"} {
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "TRANSCRIPTION_PROVIDER=mock\nSTORE_BACKEND=none\nPORT=7000\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("TRANSCRIPTION_PROVIDER")
		os.Unsetenv("STORE_BACKEND")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7000" {
		t.Errorf("Expected port 7000 from env file, got %s", cfg.Port)
	}

	if cfg.Provider != ProviderMock || cfg.StoreBackend != StoreNone {
		t.Errorf("Expected mock provider and none store, got %s/%s", cfg.Provider, cfg.StoreBackend)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSCRIPTION_PROVIDER", "mock")
	t.Setenv("STORE_BACKEND", "none")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Expected missing env file to be ignored, got %v", err)
	}
}
