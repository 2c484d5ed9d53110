package engine

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/models"
)

// Intent is the fallback resolver's reading of a player action.
type Intent int

const (
	IntentOther Intent = iota
	IntentAttack
	IntentSearch
	IntentPotion
)

func (i Intent) String() string {
	switch i {
	case IntentAttack:
		return "attack"
	case IntentSearch:
		return "search"
	case IntentPotion:
		return "potion"
	}
	return "other"
}

// Fallback resolves actions from keyword tables when no narrator is available.
type Fallback struct {
	tables content.Fallback
	roller dice.Roller
	rng    dice.Random
}

// NewFallback returns a resolver over the given tables.
func NewFallback(tables content.Fallback, roller dice.Roller, rng dice.Random) *Fallback {
	return &Fallback{tables: tables, roller: roller, rng: rng}
}

// Classify matches the action against the keyword tables, case-insensitively.
// Attack wins over search, and search over the potion.
func (f *Fallback) Classify(action string) Intent {
	a := strings.ToLower(action)
	switch {
	case containsAny(a, f.tables.Attack.Keywords):
		return IntentAttack
	case containsAny(a, f.tables.Search.Keywords):
		return IntentSearch
	case containsAny(a, []string{f.tables.Potion.Item}):
		return IntentPotion
	}
	return IntentOther
}

// Resolve settles an action against state without changing it; the caller
// applies the returned effects.
func (f *Fallback) Resolve(state *models.GameState, action string) Resolution {
	switch f.Classify(action) {
	case IntentAttack:
		return f.attack(state)
	case IntentSearch:
		return f.search()
	case IntentPotion:
		return f.potion(state)
	}
	narrative := f.tables.Flavor[f.rng.Intn(len(f.tables.Flavor))]
	return Resolution{Narrative: narrative, Summary: narrative}
}

func (f *Fallback) attack(state *models.GameState) Resolution {
	t := f.tables.Attack
	check := dice.Check(f.roller.Roll(), t.Difficulty)
	res := Resolution{Description: t.Intro, Check: &check}
	if check.Success {
		res.Narrative = t.Success
		res.Effects.Gold = models.Int(t.GoldReward)
		if len(state.Enemies) > 0 {
			res.Effects.RemoveEnemies = []string{state.Enemies[0]}
		}
	} else {
		res.Narrative = t.Failure
		res.Effects.Health = models.Int(-t.Damage)
	}
	res.Summary = summarize(res)
	return res
}

func (f *Fallback) search() Resolution {
	t := f.tables.Search
	check := dice.Check(f.roller.Roll(), t.Difficulty)
	res := Resolution{Description: t.Intro, Check: &check, Narrative: t.Failure}
	if check.Success {
		item := t.Items[f.rng.Intn(len(t.Items))]
		res.Narrative = fmt.Sprintf(t.Success, item)
		res.Effects.AddItems = []string{item}
	}
	res.Summary = summarize(res)
	return res
}

func (f *Fallback) potion(state *models.GameState) Resolution {
	t := f.tables.Potion
	if !state.HasItem(t.Item) {
		return Resolution{Narrative: t.Missing, Summary: t.Missing}
	}
	return Resolution{
		Narrative: t.Success,
		Summary:   t.Success,
		Effects: models.Effects{
			Health:      models.Int(t.Heal),
			RemoveItems: []string{t.Item},
		},
	}
}

func summarize(r Resolution) string {
	if r.Check == nil {
		return r.Narrative
	}
	return strings.TrimSpace(fmt.Sprintf("%s [roll: %d/%d] %s: %s",
		r.Description, r.Check.Roll, r.Check.Difficulty, r.Check.Tag(), r.Narrative))
}

// containsAny reports whether any keyword occurs in s. Keywords written in
// ASCII must match whole words, so "hit" does not match "white"; other
// keywords, such as Chinese ones, match as substrings.
func containsAny(s string, keywords []string) bool {
	words := " " + strings.Join(strings.FieldsFunc(s, notWordRune), " ") + " "
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if isASCII(k) {
			if strings.Contains(words, " "+strings.Join(strings.FieldsFunc(k, notWordRune), " ")+" ") {
				return true
			}
		} else if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
