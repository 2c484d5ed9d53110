package engine

import (
	"slices"
	"strings"
	"testing"

	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/models"
)

func newTestFallback(t *testing.T, rolls ...int) *Fallback {
	t.Helper()
	return NewFallback(testPack(t).Fallback, dice.NewSequence(rolls...), &scriptedRandom{})
}

func TestClassify(t *testing.T) {
	f := newTestFallback(t)
	tests := []struct {
		action string
		want   Intent
	}{
		{"I attack the goblin", IntentAttack},
		{"STRIKE!", IntentAttack},
		{"攻击哥布林", IntentAttack},
		{"search the chest", IntentSearch},
		{"I look for a way out", IntentSearch},
		{"Drink the Healing Potion", IntentPotion},
		{"search for something to kill", IntentAttack},
		{"sing a song", IntentOther},
		{"attacking the orc", IntentAttack},
		{"search the stable", IntentSearch},
		{"put on the white cloak", IntentOther},
		{"practice my skills", IntentOther},
		{"", IntentOther},
	}
	for _, tt := range tests {
		if got := f.Classify(tt.action); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestFallbackAttackSuccess(t *testing.T) {
	f := newTestFallback(t, 15)
	s := models.NewGameState()
	s.Enemies = []string{"goblin", "orc"}

	res := f.Resolve(s, "attack")
	if res.Check == nil || !res.Check.Success || res.Check.Difficulty != 12 {
		t.Fatalf("expected a successful check against 12, got %+v", res.Check)
	}
	if res.Effects.Gold == nil || *res.Effects.Gold != 15 {
		t.Errorf("expected gold +15, got %v", res.Effects.Gold)
	}
	if !slices.Equal(res.Effects.RemoveEnemies, []string{"goblin"}) {
		t.Errorf("expected the first enemy removed, got %v", res.Effects.RemoveEnemies)
	}
	if len(s.Enemies) != 2 {
		t.Errorf("Resolve must not mutate state, enemies %v", s.Enemies)
	}
	if want := "You launch an attack! [roll: 15/12] Success: Your blow lands true."; res.Summary != want {
		t.Errorf("summary = %q, want %q", res.Summary, want)
	}
}

func TestFallbackAttackWithoutEnemies(t *testing.T) {
	f := newTestFallback(t, 20)
	res := f.Resolve(models.NewGameState(), "attack the air")
	if len(res.Effects.RemoveEnemies) != 0 {
		t.Errorf("nothing to remove, got %v", res.Effects.RemoveEnemies)
	}
	if res.Effects.Gold == nil || *res.Effects.Gold != 15 {
		t.Errorf("expected gold +15, got %v", res.Effects.Gold)
	}
}

func TestFallbackAttackFailure(t *testing.T) {
	f := newTestFallback(t, 4)
	res := f.Resolve(models.NewGameState(), "attack")
	if res.Check.Success {
		t.Fatal("roll 4 must fail against 12")
	}
	if res.Effects.Health == nil || *res.Effects.Health != -10 {
		t.Errorf("expected health -10, got %v", res.Effects.Health)
	}
	if res.Effects.Gold != nil {
		t.Errorf("no gold on failure, got %d", *res.Effects.Gold)
	}
}

func TestFallbackSearch(t *testing.T) {
	pool := testPack(t).Fallback.Search.Items

	f := NewFallback(testPack(t).Fallback, dice.NewSequence(10), &scriptedRandom{ints: []int{2}})
	res := f.Resolve(models.NewGameState(), "search the room")
	if len(res.Effects.AddItems) != 1 || res.Effects.AddItems[0] != pool[2] {
		t.Fatalf("expected %q, got %v", pool[2], res.Effects.AddItems)
	}
	if res.Narrative != "You found: "+pool[2]+"!" {
		t.Errorf("unexpected narrative %q", res.Narrative)
	}

	f = newTestFallback(t, 9)
	res = f.Resolve(models.NewGameState(), "search the room")
	if !res.Effects.Empty() {
		t.Errorf("failed search has no effects, got %+v", res.Effects)
	}
	if res.Narrative != "You find nothing of use." {
		t.Errorf("unexpected narrative %q", res.Narrative)
	}
}

func TestFallbackPotion(t *testing.T) {
	f := newTestFallback(t)
	s := models.NewGameState()
	s.Health = 50

	res := f.Resolve(s, "drink healing potion")
	if res.Check != nil {
		t.Errorf("drinking needs no roll, got %+v", res.Check)
	}
	if res.Effects.Health == nil || *res.Effects.Health != 30 {
		t.Errorf("expected health +30, got %v", res.Effects.Health)
	}
	if !slices.Equal(res.Effects.RemoveItems, []string{models.HealingPotion}) {
		t.Errorf("expected the potion consumed, got %v", res.Effects.RemoveItems)
	}

	s.Inventory = nil
	res = f.Resolve(s, "drink healing potion")
	if !res.Effects.Empty() || res.Narrative != "You have no healing potion." {
		t.Errorf("expected a no-op without a potion, got %+v", res)
	}
}

func TestFallbackFlavor(t *testing.T) {
	flavor := testPack(t).Fallback.Flavor
	f := NewFallback(testPack(t).Fallback, dice.NewSequence(1), &scriptedRandom{ints: []int{1}})
	res := f.Resolve(models.NewGameState(), "dance under the moon")
	if res.Narrative != flavor[1] || res.Summary != flavor[1] {
		t.Errorf("expected flavor line %q, got %q", flavor[1], res.Narrative)
	}
	if res.Check != nil || !res.Effects.Empty() {
		t.Errorf("flavor has no check or effects, got %+v", res)
	}
	if strings.TrimSpace(res.Narrative) == "" {
		t.Error("flavor must not be blank")
	}
}
