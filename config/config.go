// Package config loads dicton settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Provider selects the primary STT backend ("elevenlabs" or "gladia").
	Provider string

	ElevenLabsAPIKey string
	ElevenLabsModel  string
	GladiaAPIKey     string

	OpenAIAPIKey string
	OpenAIModel  string

	STTTimeout     time.Duration
	Language       string // hint for transcription, empty = auto-detect
	TargetLanguage string // translation target
	UploadFormat   string // "wav" or "flac"

	DictionaryPath string
	Notifications  bool
}

// Load reads configuration from the environment. If envPath is non-empty
// the file is loaded first (without overriding variables already set);
// a missing default .env is not an error.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envPath, err)
		}
	} else {
		godotenv.Load() // best effort: ./.env
	}

	cfg := &Config{
		Provider:         getEnv("STT_PROVIDER", "elevenlabs"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsModel:  getEnv("ELEVENLABS_MODEL", "scribe_v1"),
		GladiaAPIKey:     os.Getenv("GLADIA_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Language:         os.Getenv("STT_LANGUAGE"),
		TargetLanguage:   getEnv("TARGET_LANGUAGE", "en"),
		UploadFormat:     getEnv("UPLOAD_FORMAT", "wav"),
		DictionaryPath:   os.Getenv("DICTIONARY_PATH"),
		Notifications:    getBool("NOTIFICATIONS_ENABLED", true),
	}

	timeoutS := getInt("STT_TIMEOUT", 120)
	cfg.STTTimeout = time.Duration(timeoutS) * time.Second

	switch cfg.Provider {
	case "elevenlabs", "gladia":
	default:
		return nil, fmt.Errorf("unsupported STT provider %q (use elevenlabs or gladia)", cfg.Provider)
	}

	switch cfg.UploadFormat {
	case "wav", "flac":
	default:
		return nil, fmt.Errorf("unknown upload format %q (use wav or flac)", cfg.UploadFormat)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
