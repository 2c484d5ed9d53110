package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Narrator selects the narrator transport: "deepseek" or "openai" for a
	// chat-completions endpoint, "gemini", or "none" for fallback-only play.
	Narrator     string        `env:"DNDGP_NARRATOR" envDefault:"deepseek"`
	APIKey       string        `env:"DEEPSEEK_API_KEY"`
	BaseURL      string        `env:"DNDGP_BASE_URL" envDefault:"https://api.deepseek.com"`
	Model        string        `env:"DNDGP_MODEL" envDefault:"deepseek-chat"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"DNDGP_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Timeout      time.Duration `env:"DNDGP_TIMEOUT" envDefault:"30s"`
	MaxTokens    int           `env:"DNDGP_MAX_TOKENS" envDefault:"800"`
	Temperature  float64       `env:"DNDGP_TEMPERATURE" envDefault:"0.8"`
	TopP         float64       `env:"DNDGP_TOP_P" envDefault:"0.95"`

	Seed        int64  `env:"DNDGP_SEED"`
	ContentPath string `env:"DNDGP_CONTENT"`
	JournalPath string `env:"DNDGP_JOURNAL"`
	LogFile     string `env:"DNDGP_LOG_FILE" envDefault:"dndgp.log"`
	LogLevel    string `env:"DNDGP_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads the configuration from an optional .env file and environment variables.
// A missing API key is not an error: the game runs on its built-in logic instead.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// ParseConfig loads the environment and then applies command line overrides.
func ParseConfig(flags *flag.FlagSet, args []string) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	flags.StringVar(&cfg.Narrator, "narrator", cfg.Narrator, "Narrator backend: deepseek, openai, gemini or none")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Chat-completions base URL")
	flags.StringVar(&cfg.Model, "model", cfg.Model, "Chat-completions model name")
	flags.StringVar(&cfg.GeminiModel, "gemini-model", cfg.GeminiModel, "Gemini model name")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Narrator request timeout")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one)")
	flags.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "Path to a content pack YAML file")
	flags.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path to a SQLite turn journal (empty disables it)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
