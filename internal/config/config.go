// Package config loads runtime configuration from the environment, with
// optional .env and YAML file overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	// Model API
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	VisionModel string  `yaml:"vision_model"`
	ImageModel  string  `yaml:"image_model"`
	CallTimeout int     `yaml:"call_timeout_seconds"`
	RateLimit   float64 `yaml:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst"`

	// Pipeline
	MaxRetries    int `yaml:"max_retries"`
	AttemptBudget int `yaml:"attempt_budget"`

	// Screenshot capture
	ScreenshotWidth   int `yaml:"screenshot_width"`
	ScreenshotHeight  int `yaml:"screenshot_height"`
	ScreenshotTimeout int `yaml:"screenshot_timeout_ms"`

	// Server
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`

	// Auth (JWKS-based bearer token verification, optional)
	AuthIssuer   string `yaml:"auth_issuer"`
	AuthJWKSURL  string `yaml:"auth_jwks_url"`
	AuthAudience string `yaml:"auth_audience"`

	Debug bool `yaml:"debug"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIKey:            os.Getenv("OPENAI_API_KEY"),
		BaseURL:           os.Getenv("OPENAI_BASE_URL"),
		VisionModel:       envOr("OPENAI_MODEL", "gpt-4o"),
		ImageModel:        envOr("IMAGE_MODEL", "gpt-image-1"),
		CallTimeout:       envInt("CALL_TIMEOUT_SECONDS", 120),
		RateLimit:         envFloat("RATE_LIMIT", 3),
		RateBurst:         envInt("RATE_BURST", 5),
		MaxRetries:        envInt("MAX_RETRIES", 2),
		AttemptBudget:     envInt("ATTEMPT_BUDGET", 3),
		ScreenshotWidth:   envInt("SCREENSHOT_WIDTH", 1920),
		ScreenshotHeight:  envInt("SCREENSHOT_HEIGHT", 1080),
		ScreenshotTimeout: envInt("SCREENSHOT_TIMEOUT", 30000),
		ListenAddr:        envOr("LISTEN_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AuthIssuer:        os.Getenv("AUTH_ISSUER"),
		AuthJWKSURL:       os.Getenv("AUTH_JWKS_URL"),
		AuthAudience:      os.Getenv("AUTH_AUDIENCE"),
		Debug:             envBool("DEBUG"),
	}
}

// LoadFile loads the environment configuration, then applies the YAML
// file on top. Every key present in the file wins over the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.AttemptBudget < 1 {
		return fmt.Errorf("attempt budget must be at least 1")
	}
	return nil
}

// AuthEnabled reports whether bearer token verification is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthJWKSURL != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true" || v == "yes"
}
