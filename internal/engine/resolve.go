package engine

import (
	"strings"

	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/models"
)

// Placeholder narration for outcomes the narrator left blank.
const (
	DefaultDirectOutcome  = "You attempt the action."
	DefaultSuccessOutcome = "You succeeded!"
	DefaultFailureOutcome = "You failed."
)

// Resolution is a narrator outcome after any check has been rolled.
type Resolution struct {
	Description string
	Narrative   string
	Check       *dice.Result
	Effects     models.Effects
	// Summary is what the story history remembers of this turn.
	Summary string
}

// Resolve rolls the check an outcome asks for and settles its narrative and effects.
// The outcome's own effects are left untouched.
func Resolve(outcome TurnOutcome, roller dice.Roller) Resolution {
	if !outcome.NeedsRoll {
		narrative := orDefault(outcome.DirectOutcome, DefaultDirectOutcome)
		return Resolution{
			Description: outcome.Description,
			Narrative:   narrative,
			Effects:     outcome.Effects.Clone(),
			Summary:     narrative,
		}
	}

	check := dice.Check(roller.Roll(), outcome.Difficulty)
	narrative := orDefault(outcome.FailureOutcome, DefaultFailureOutcome)
	if check.Success {
		narrative = orDefault(outcome.SuccessOutcome, DefaultSuccessOutcome)
	}

	res := Resolution{
		Description: outcome.Description,
		Narrative:   narrative,
		Check:       &check,
		Effects:     Amplify(outcome.Effects, check.Band),
	}
	res.Summary = summarize(res)
	return res
}

// Amplify returns a copy of fx adjusted for the roll's band. On a critical
// failure positive health and mana become penalties of the same size; on a
// critical success positive health, mana and gold grow by half, truncated.
// Zero and negative changes are never touched.
func Amplify(fx models.Effects, band dice.Band) models.Effects {
	out := fx.Clone()
	var stats []models.Stat
	switch band {
	case dice.BandCriticalFailure:
		stats = []models.Stat{models.StatHealth, models.StatMana}
	case dice.BandCriticalSuccess:
		stats = []models.Stat{models.StatHealth, models.StatMana, models.StatGold}
	default:
		return out
	}

	for _, stat := range stats {
		d := out.Delta(stat)
		if d == nil || *d <= 0 {
			continue
		}
		if band == dice.BandCriticalFailure {
			out.SetDelta(stat, -*d)
		} else {
			out.SetDelta(stat, *d*3/2)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
