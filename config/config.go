package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server  ServerConfig
	State   StateConfig
	Listing ListingConfig
}

// ServerConfig points at the survey backend.
type ServerConfig struct {
	BaseURL    string
	TimeoutSec int
}

// StateConfig locates the local state directory holding session cookies and
// in-progress drafts.
type StateConfig struct {
	Dir string
}

// ListingConfig tunes the collection views.
type ListingConfig struct {
	FeaturedCount int
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			BaseURL:    getEnv("SURVEY_SERVER_URL", "http://localhost:5000"),
			TimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),
		},
		State: StateConfig{
			Dir: getEnv("SURVEY_STATE_DIR", defaultStateDir()),
		},
		Listing: ListingConfig{
			FeaturedCount: getEnvInt("FEATURED_COUNT", 3),
		},
	}
	return cfg, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simple-survey"
	}
	return filepath.Join(home, ".simple-survey")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
