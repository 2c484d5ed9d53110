package engine

import (
	"github.com/111acge/DNDGP/internal/content"
	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/models"
)

// WorldTick applies the ambient events that happen between player turns.
type WorldTick struct {
	tables content.World
	rng    dice.Random
}

// NewWorldTick returns a world tick over the given tables.
func NewWorldTick(tables content.World, rng dice.Random) *WorldTick {
	return &WorldTick{tables: tables, rng: rng}
}

// Run rolls for an ambient event and for weather and time drift, applying
// whatever happens to state.
func (w *WorldTick) Run(state *models.GameState) []Notice {
	var notices []Notice

	if len(w.tables.Events) > 0 && w.rng.Float64() < w.tables.EventChance {
		ev := w.tables.Events[w.rng.Intn(len(w.tables.Events))]
		notices = append(notices, Notice{Kind: NoticeWorldEvent, Text: ev.Description})
		notices = append(notices, Apply(state, ev.Effects)...)
		state.RecordEvent(ev.Description)
	}

	if len(w.tables.Weather) > 0 && w.rng.Float64() < w.tables.DriftChance {
		var fx models.Effects
		fx.WeatherChange = models.String(w.tables.Weather[w.rng.Intn(len(w.tables.Weather))])
		if len(w.tables.Times) > 0 && w.rng.Float64() < w.tables.TimeChance {
			fx.TimeChange = models.String(w.tables.Times[w.rng.Intn(len(w.tables.Times))])
		}
		notices = append(notices, Apply(state, fx)...)
	}

	return notices
}
