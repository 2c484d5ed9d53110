// Package narrator talks to the text-completion services that author the story.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/111acge/DNDGP/internal/config"
)

// Chat roles used in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNotConfigured means no narrator could be built from the configuration.
	ErrNotConfigured = errors.New("narrator not configured")
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("empty narrator response")
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Narrator turns a conversation into the next piece of generated text.
type Narrator interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// Options are the generation settings shared by every transport.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
	// Logger receives per-call diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// StatusError is returned when the service answers with a non-success HTTP status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("narrator API error %d: %s", e.Code, e.Body)
}

// New builds the narrator selected by cfg. It returns ErrNotConfigured when the
// selected backend has no credentials; callers then play without a narrator.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Narrator, error) {
	opts := Options{
		Logger:      logger,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Timeout:     cfg.Timeout,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Narrator)) {
	case "deepseek", "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY is not set", ErrNotConfigured)
		}
		c, err := NewChatClient(cfg.BaseURL, cfg.APIKey, opts, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNotConfigured)
		}
		opts.Model = cfg.GeminiModel
		c, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "none", "off":
		return nil, fmt.Errorf("%w: narrator disabled", ErrNotConfigured)
	default:
		return nil, fmt.Errorf("%w: unknown narrator %q", ErrNotConfigured, cfg.Narrator)
	}
}

// Close releases the narrator's resources if it holds any.
func Close(n Narrator) error {
	if c, ok := n.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
