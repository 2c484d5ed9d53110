package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/engine"
)

func newTestModel(t *testing.T, rolls ...int) model {
	t.Helper()
	pack, err := content.Default()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	rng, err := dice.NewRand(1)
	if err != nil {
		t.Fatalf("rand: %v", err)
	}
	eng, err := engine.NewEngine(pack,
		engine.WithRandom(rng),
		engine.WithRoller(dice.NewSequence(rolls...)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewModel(eng)
}

func typeLine(t *testing.T, m model, line string) (model, tea.Cmd) {
	t.Helper()
	if line != "" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
		m = next.(model)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func startPlaying(t *testing.T, m model) model {
	t.Helper()
	m, _ = typeLine(t, m, "Mira")
	if m.state != stateClass {
		t.Fatalf("expected class selection, got state %d", m.state)
	}
	m, _ = typeLine(t, m, "2")
	if m.state != statePlaying {
		t.Fatalf("expected to be playing, got state %d", m.state)
	}
	return m
}

func TestCharacterCreation(t *testing.T) {
	m := startPlaying(t, newTestModel(t, 10))
	if m.snap.CharacterName != "Mira" || m.snap.CharacterClass != "Mage" {
		t.Errorf("expected Mira the Mage, got %s the %s", m.snap.CharacterName, m.snap.CharacterClass)
	}
	if !strings.Contains(m.gameLog, "Mode: offline") {
		t.Error("intro should explain the offline mode")
	}
}

func TestCommandsDoNotTakeATurn(t *testing.T) {
	m := startPlaying(t, newTestModel(t, 18))
	for _, c := range []string{"/status", "/inventory", "/story", "/help", "/roll"} {
		var cmd tea.Cmd
		m, cmd = typeLine(t, m, c)
		if cmd != nil {
			t.Errorf("%s should be handled locally", c)
		}
	}
	if m.snap.Turn != 0 {
		t.Errorf("commands must not advance the turn, got %d", m.snap.Turn)
	}
	for _, want := range []string{"Mira the Mage", "spellbook", "Your story has not begun yet.", "/inventory", "You roll a d20: 18 (critical success)"} {
		if !strings.Contains(m.gameLog, want) {
			t.Errorf("log is missing %q", want)
		}
	}
}

func TestTurnRoundTrip(t *testing.T) {
	m := startPlaying(t, newTestModel(t, 15))
	m, cmd := typeLine(t, m, "search the shelves")
	if m.state != stateResolving || cmd == nil {
		t.Fatalf("expected a pending turn, got state %d", m.state)
	}

	next, _ := m.Update(cmd())
	m = next.(model)
	if m.state != statePlaying {
		t.Fatalf("expected to resume play, got state %d", m.state)
	}
	if m.snap.Turn != 1 {
		t.Errorf("expected turn 1, got %d", m.snap.Turn)
	}
	if !strings.Contains(m.gameLog, "Roll: 15 against 10, Success") {
		t.Errorf("log is missing the roll line:\n%s", m.gameLog)
	}
	if !strings.Contains(m.gameLog, "Gained item:") {
		t.Errorf("log is missing the item notice:\n%s", m.gameLog)
	}
}

func TestTurnErrorKeepsPlaying(t *testing.T) {
	m := startPlaying(t, newTestModel(t, 10))
	next, _ := m.Update(turnResolvedMsg{err: engine.ErrFallbackFailed})
	m = next.(model)
	if m.state != statePlaying {
		t.Errorf("expected play to continue, got state %d", m.state)
	}
	if !strings.Contains(m.gameLog, NarratorDown) {
		t.Errorf("log is missing %q", NarratorDown)
	}
}

func TestGameOverRestart(t *testing.T) {
	m := startPlaying(t, newTestModel(t, 10))
	snap := m.snap.Clone()
	snap.Health = 0
	next, _ := m.Update(turnResolvedMsg{
		result: &engine.TurnResult{Turn: 1, Action: "jump", Narrative: "You fall.", GameOver: true},
		snap:   snap,
	})
	m = next.(model)
	if m.state != stateGameOver {
		t.Fatalf("expected game over, got state %d", m.state)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(model)
	if m.state != stateName || m.gameLog != "" {
		t.Errorf("expected a fresh character screen, got state %d", m.state)
	}
}
