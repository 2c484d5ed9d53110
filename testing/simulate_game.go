package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/111acge/DNDGP/internal/config"
	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/engine"
	"github.com/111acge/DNDGP/internal/journal"
	"github.com/111acge/DNDGP/internal/models"
	"github.com/111acge/DNDGP/internal/narrator"
)

const maxTurns = 10

// scripted is played in order when no player model is available.
var scripted = []string{
	"look around the clearing",
	"search the fallen leaves",
	"follow the path deeper into the forest",
	"attack the nearest creature",
	"drink healing potion",
	"examine the old stone marker",
	"climb a tree to get a better view",
	"strike at whatever moves in the bushes",
	"explore the ruins ahead",
	"rest by a small fire",
}

func main() {
	ctx := context.Background()
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	pack, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	rng, err := dice.NewRand(cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to seed dice: %v", err)
	}

	journalPath := cfg.JournalPath
	if journalPath == "" {
		dir, err := os.MkdirTemp("", "dndgp-sim")
		if err != nil {
			log.Fatalf("Failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(dir)
		journalPath = filepath.Join(dir, "journal.db")
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()

	opts := []engine.Option{
		engine.WithRandom(rng),
		engine.WithTimeout(cfg.Timeout),
		engine.WithLogger(logger),
		engine.WithRecorder(j),
	}
	if dm, err := narrator.New(ctx, cfg, logger); err != nil {
		fmt.Printf("Narrator unavailable (%v), using built-in rules.\n", err)
	} else {
		defer narrator.Close(dm)
		opts = append(opts, engine.WithNarrator(dm))
	}

	eng, err := engine.NewEngine(pack, opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	eng.Restart("Simulated Hero", "")

	// Initialize the Player LLM when a key is available.
	var player *genai.GenerativeModel
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		player = client.GenerativeModel(cfg.GeminiModel)
	}

	s := eng.Snapshot()
	fmt.Printf("%s the %s stands at the %s.\n\n", s.CharacterName, s.CharacterClass, s.Location)

	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		action := scripted[(turn-1)%len(scripted)]
		if player != nil {
			action = getPlayerAction(ctx, player, eng.Snapshot(), action)
		}
		fmt.Printf("Player Action: %s\n", action)

		result, err := eng.ProcessTurn(ctx, action)
		if err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}
		if result.Check != nil {
			fmt.Printf("Roll: %d vs %d (%s, %s)\n", result.Check.Roll, result.Check.Difficulty, result.Check.Tag(), result.Check.Band)
		}
		fmt.Printf("Outcome [%s]: %s\n", result.Path, result.Narrative)
		for _, n := range result.Notices {
			fmt.Printf("Effect: %s\n", n.Text)
		}
		for _, n := range result.World {
			fmt.Printf("World: %s\n", n.Text)
		}

		s := eng.Snapshot()
		fmt.Printf("Stats: Health=%d/%d, Gold=%d, Inventory=%v\n\n", s.Health, s.MaxHealth, s.Gold, s.Inventory)

		if result.GameOver {
			fmt.Println("Game Ended: the hero has fallen.")
			break
		}
	}

	recs, err := j.Recent(ctx, maxTurns)
	if err != nil {
		log.Fatalf("Failed to read journal: %v", err)
	}
	fmt.Printf("--- Journal (session %s) ---\n", j.Session())
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		fmt.Printf("%2d %-8s %-40s health=%d gold=%d\n", r.Turn, r.Path, r.Action, r.Health, r.Gold)
	}
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, s *models.GameState, fallback string) string {
	historyText := ""
	for _, entry := range s.History {
		historyText += fmt.Sprintf("Action: %s\nOutcome: %s\n", entry.Action, entry.Response)
	}

	prompt := fmt.Sprintf(`You are playing a fantasy text adventure as %s the %s.
Location: %s
Surroundings: %s
Health: %d/%d
Inventory: %v
Enemies: %v

History:
%s

What is your next action? Return ONLY the action string, no extra commentary.`,
		s.CharacterName, s.CharacterClass,
		s.Location,
		s.Environment,
		s.Health, s.MaxHealth,
		s.Inventory,
		s.Enemies,
		historyText,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}
	action := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if action == "" || strings.HasPrefix(action, "/") {
		return fallback
	}
	return action
}
