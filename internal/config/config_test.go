package config

import (
	"flag"
	"log/slog"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Narrator != "deepseek" {
		t.Errorf("expected default narrator deepseek, got %q", cfg.Narrator)
	}
	if cfg.BaseURL != "https://api.deepseek.com" || cfg.Model != "deepseek-chat" {
		t.Errorf("unexpected endpoint defaults: %s %s", cfg.BaseURL, cfg.Model)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if cfg.MaxTokens != 800 || cfg.Temperature != 0.8 || cfg.TopP != 0.95 {
		t.Errorf("unexpected sampling defaults: %d %v %v", cfg.MaxTokens, cfg.Temperature, cfg.TopP)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("DNDGP_SEED", "1234")
	t.Setenv("DNDGP_TIMEOUT", "5s")
	t.Setenv("DNDGP_MODEL", "from-env")

	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-model", "from-flag", "-narrator", "none"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("expected api key from env, got %q", cfg.APIKey)
	}
	if cfg.Seed != 1234 || cfg.Timeout != 5*time.Second {
		t.Errorf("expected seed 1234 and 5s timeout, got %d %v", cfg.Seed, cfg.Timeout)
	}
	if cfg.Model != "from-flag" {
		t.Errorf("expected flag to win over env, got %q", cfg.Model)
	}
	if cfg.Narrator != "none" {
		t.Errorf("expected narrator none, got %q", cfg.Narrator)
	}
}

func TestParseConfigBadEnv(t *testing.T) {
	t.Setenv("DNDGP_MAX_TOKENS", "lots")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for non-numeric max tokens")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		c := Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
