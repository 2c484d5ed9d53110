package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/111acge/DNDGP/internal/models"
)

func TestDefaultPack(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("load default pack: %v", err)
	}
	if len(p.Classes) != 3 {
		t.Errorf("expected 3 classes, got %d", len(p.Classes))
	}
	if p.Fallback.Attack.Difficulty != 12 || p.Fallback.Attack.GoldReward != 15 || p.Fallback.Attack.Damage != 10 {
		t.Errorf("unexpected attack table: %+v", p.Fallback.Attack)
	}
	if p.Fallback.Search.Difficulty != 10 || len(p.Fallback.Search.Items) != 4 {
		t.Errorf("unexpected search table: %+v", p.Fallback.Search)
	}
	if p.Fallback.Potion.Item != models.HealingPotion || p.Fallback.Potion.Heal != 30 {
		t.Errorf("unexpected potion table: %+v", p.Fallback.Potion)
	}
	if len(p.Fallback.Flavor) != 4 {
		t.Errorf("expected 4 flavor lines, got %d", len(p.Fallback.Flavor))
	}
	if p.World.EventChance != 0.15 || p.World.DriftChance != 0.12 || p.World.TimeChance != 0.4 {
		t.Errorf("unexpected world chances: %+v", p.World)
	}
	if len(p.World.Weather) != 6 || len(p.World.Times) != 7 || len(p.World.Events) != 5 {
		t.Errorf("unexpected world tables: %d weather, %d times, %d events",
			len(p.World.Weather), len(p.World.Times), len(p.World.Events))
	}
	if fx := p.World.Events[0].Effects; fx.Mana == nil || *fx.Mana != 10 {
		t.Errorf("expected first event to grant 10 mana, got %+v", fx)
	}
}

func TestNewGameStateClasses(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("load default pack: %v", err)
	}

	tests := []struct {
		class string
		check func(*models.GameState) bool
	}{
		{"warrior", func(s *models.GameState) bool {
			return s.Health == 120 && s.MaxHealth == 120 && s.Strength == 16 && s.HasItem("iron shield")
		}},
		{"Mage", func(s *models.GameState) bool {
			return s.Mana == 80 && s.MaxMana == 80 && s.Intelligence == 16 && s.HasItem("spellbook")
		}},
		{"rogue", func(s *models.GameState) bool {
			return s.Agility == 18 && s.Gold == 100 && s.HasItem("poisoned dagger")
		}},
		{"bard", func(s *models.GameState) bool {
			return s.CharacterClass == "Warrior"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			s := p.NewGameState("Mira", tt.class)
			if s.CharacterName != "Mira" {
				t.Errorf("expected name Mira, got %q", s.CharacterName)
			}
			if !tt.check(s) {
				t.Errorf("unexpected state for %s: %+v", tt.class, s)
			}
		})
	}

	if s := p.NewGameState("  ", "rogue"); s.CharacterName != "Adventurer" {
		t.Errorf("expected blank name to keep the default, got %q", s.CharacterName)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	_, err := Parse([]byte("world:\n  event_chance: 2\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"no classes", "event_chance", "no flavor"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %v", want, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if len(p.Classes) == 0 {
		t.Fatal("expected default classes")
	}

	path := filepath.Join(t.TempDir(), "pack.yaml")
	custom := strings.Replace(string(defaultContent), "heal: 30", "heal: 45", 1)
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	p, err = Load(path)
	if err != nil {
		t.Fatalf("load custom: %v", err)
	}
	if p.Fallback.Potion.Heal != 45 {
		t.Errorf("expected heal 45, got %d", p.Fallback.Potion.Heal)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
