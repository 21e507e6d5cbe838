// ABOUTME: Runtime configuration loaded from .env and environment variables
// ABOUTME: Resolves the database path under the XDG data directory by default
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	defaultLogLevel    = "info"
	defaultWebPort     = "8080"
	defaultOpenAIModel = "gpt-4o-mini"
)

type Config struct {
	DBPath      string
	LogLevel    string
	WebPort     string
	OpenAIKey   string
	OpenAIModel string

	// EnvFileLoaded is false when no .env file was found.
	EnvFileLoaded bool
}

// Load reads .env files (if present) and the environment. Values already
// set in the environment win over .env entries.
func Load(envFiles ...string) *Config {
	err := godotenv.Load(envFiles...)

	cfg := &Config{
		DBPath:        os.Getenv("EVENTDESK_DB_PATH"),
		LogLevel:      os.Getenv("EVENTDESK_LOG_LEVEL"),
		WebPort:       os.Getenv("EVENTDESK_WEB_PORT"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		EnvFileLoaded: err == nil,
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.WebPort == "" {
		cfg.WebPort = defaultWebPort
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = defaultOpenAIModel
	}

	return cfg
}

func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "eventdesk", "eventdesk.db")
}

// AssistEnabled reports whether an AI provider can be constructed.
func (c *Config) AssistEnabled() bool {
	return c.OpenAIKey != ""
}
