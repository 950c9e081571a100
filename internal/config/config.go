// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// server
	HTTPPort       int
	CORSOrigins    []string
	MaxUploadBytes int64

	// nats; an empty url disables the render worker
	NatsURL string

	// rendering
	AssetsDir      string
	FontsDir       string
	RenderRPS      float64
	RenderBurst    int
	ThumbnailWidth int

	// logging
	LogLevel string
	LogFile  string
}

// Load reads an optional .env file (or the given files) and then the
// environment, falling back to defaults. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 3100),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 8<<20)),
		NatsURL:        getEnv("NATS_URL", ""),
		AssetsDir:      getEnv("ASSETS_DIR", ""),
		FontsDir:       getEnv("FONTS_DIR", ""),
		RenderRPS:      getEnvFloat("RENDER_RPS", 5),
		RenderBurst:    getEnvInt("RENDER_BURST", 10),
		ThumbnailWidth: getEnvInt("THUMBNAIL_WIDTH", 320),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings no component can run with.
func (c *Config) Validate() error {
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.RenderRPS <= 0 {
		return fmt.Errorf("RENDER_RPS must be positive: %g", c.RenderRPS)
	}
	if c.RenderBurst < 1 {
		return fmt.Errorf("RENDER_BURST must be at least 1: %d", c.RenderBurst)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive: %d", c.MaxUploadBytes)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated variable, dropping blank items.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
