package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvMailto  = "SCINET_OPENALEX_MAILTO"
	EnvAPIKey  = "SCINET_OPENALEX_API_KEY"
	EnvAddr    = "SCINET_ADDR"
	EnvLogMode = "SCINET_LOG_MODE"
)

// ApplyEnv loads .env from the project root (if present) and applies
// environment overrides. Variables already set in the process environment
// take precedence over .env values.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load(filepath.Join(c.Root, ".env"))

	if v := os.Getenv(EnvMailto); v != "" {
		c.OpenAlex.Mailto = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.OpenAlex.APIKey = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogMode); v != "" {
		c.Log.Mode = v
	}
}
