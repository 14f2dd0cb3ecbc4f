package config

import (
	"fmt"
	"os"
)

// Config carries everything read from the environment at process start.
// Components receive it explicitly instead of reading env vars themselves.
type Config struct {
	GeminiAPIKey string
	LastFMAPIKey string
	Port         string
}

// Load builds a Config from the environment. Both API credentials are
// required; the port defaults to 8080.
func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LastFMAPIKey: os.Getenv("LASTFM_API_KEY"),
		Port:         os.Getenv("PORT"),
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.LastFMAPIKey == "" {
		return Config{}, fmt.Errorf("LASTFM_API_KEY environment variable is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}
