package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STT_PROVIDER", "ELEVENLABS_API_KEY", "ELEVENLABS_MODEL",
		"GLADIA_API_KEY", "OPENAI_API_KEY", "OPENAI_MODEL",
		"STT_LANGUAGE", "TARGET_LANGUAGE", "UPLOAD_FORMAT",
		"DICTIONARY_PATH", "NOTIFICATIONS_ENABLED", "STT_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "elevenlabs" {
		t.Errorf("Provider = %q, want elevenlabs", cfg.Provider)
	}
	if cfg.ElevenLabsModel != "scribe_v1" {
		t.Errorf("ElevenLabsModel = %q", cfg.ElevenLabsModel)
	}
	if cfg.STTTimeout != 120*time.Second {
		t.Errorf("STTTimeout = %v, want 120s", cfg.STTTimeout)
	}
	if cfg.UploadFormat != "wav" {
		t.Errorf("UploadFormat = %q, want wav", cfg.UploadFormat)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "gladia")
	t.Setenv("GLADIA_API_KEY", "gk")
	t.Setenv("STT_TIMEOUT", "30")
	t.Setenv("NOTIFICATIONS_ENABLED", "false")
	t.Setenv("UPLOAD_FORMAT", "flac")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "gladia" || cfg.GladiaAPIKey != "gk" {
		t.Errorf("provider config not read: %+v", cfg)
	}
	if cfg.STTTimeout != 30*time.Second {
		t.Errorf("STTTimeout = %v, want 30s", cfg.STTTimeout)
	}
	if cfg.Notifications {
		t.Error("Notifications should be disabled")
	}
	if cfg.UploadFormat != "flac" {
		t.Errorf("UploadFormat = %q, want flac", cfg.UploadFormat)
	}
}

func TestLoadDotenvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "dicton.env")
	content := "STT_PROVIDER=gladia\nGLADIA_API_KEY=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "gladia" || cfg.GladiaAPIKey != "from-file" {
		t.Errorf("dotenv values not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "whisperx")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown provider")
	}

	clearEnv(t)
	t.Setenv("UPLOAD_FORMAT", "ogg")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown upload format")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("explicitly named .env must exist")
	}
}
