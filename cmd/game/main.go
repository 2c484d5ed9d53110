package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/111acge/DNDGP/internal/config"
	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/engine"
	"github.com/111acge/DNDGP/internal/journal"
	"github.com/111acge/DNDGP/internal/narrator"
	"github.com/111acge/DNDGP/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	pack, err := content.Load(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	rng, err := dice.NewRand(cfg.Seed)
	if err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithRandom(rng),
		engine.WithTimeout(cfg.Timeout),
		engine.WithLogger(logger),
	}

	n, err := narrator.New(ctx, cfg, logger)
	if err != nil {
		logger.Warn("narrator unavailable, playing offline", "error", err)
	} else {
		defer narrator.Close(n)
		logger.Info("narrator ready", "narrator", n.Name())
		opts = append(opts, engine.WithNarrator(n))
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		logger.Info("journal opened", "path", cfg.JournalPath, "session", j.Session())
		opts = append(opts, engine.WithRecorder(j))
	}

	eng, err := engine.NewEngine(pack, opts...)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	return tui.Run(eng)
}
