package config

import (
	"os"
	"strconv"

	"storereport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Font   FontConfig
	Render RenderConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

// FontConfig holds report font provisioning settings
type FontConfig struct {
	URL      string
	CacheDir string
}

// RenderConfig holds image rendering settings
type RenderConfig struct {
	PixelsPerUnit float64
}

const defaultFontURL = "https://github.com/google/fonts/raw/main/ofl/notosanssc/NotoSansSC-Regular.ttf"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "release"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		},
		Font: FontConfig{
			URL:      getEnvOrDefault("FONT_URL", defaultFontURL),
			CacheDir: getEnvOrDefault("FONT_CACHE_DIR", os.TempDir()),
		},
		Render: RenderConfig{
			PixelsPerUnit: getEnvFloatOrDefault("RENDER_PPU", 80),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if cfg.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("upload size limit must be positive")
	}
	if cfg.Font.URL == "" {
		return errors.ConfigInvalid("font URL is required")
	}
	if cfg.Render.PixelsPerUnit <= 0 {
		return errors.ConfigInvalid("render scale must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
