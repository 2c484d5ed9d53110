package engine

import (
	"testing"

	"github.com/111acge/DNDGP/internal/models"
)

func TestWorldTickQuiet(t *testing.T) {
	w := NewWorldTick(testPack(t).World, &scriptedRandom{floats: []float64{0.99, 0.99}})
	s := models.NewGameState()
	before := s.Clone()

	if notices := w.Run(s); len(notices) != 0 {
		t.Errorf("expected a quiet tick, got %+v", notices)
	}
	if s.World.Weather != before.World.Weather || len(s.World.RecentEvents) != 0 {
		t.Errorf("state changed on a quiet tick: %+v", s.World)
	}
}

func TestWorldTickEvent(t *testing.T) {
	tables := testPack(t).World
	// event fires and picks the second event (gold +12); no drift.
	w := NewWorldTick(tables, &scriptedRandom{floats: []float64{0.01, 0.99}, ints: []int{1}})
	s := models.NewGameState()

	notices := w.Run(s)
	if len(notices) != 2 {
		t.Fatalf("expected event and gold notices, got %+v", notices)
	}
	if notices[0].Kind != NoticeWorldEvent || notices[0].Text != tables.Events[1].Description {
		t.Errorf("unexpected event notice %+v", notices[0])
	}
	if s.Gold != 62 {
		t.Errorf("expected gold 62, got %d", s.Gold)
	}
	if len(s.World.RecentEvents) != 1 || s.World.RecentEvents[0] != tables.Events[1].Description {
		t.Errorf("event not recorded: %v", s.World.RecentEvents)
	}
}

func TestWorldTickDrift(t *testing.T) {
	tables := testPack(t).World
	// no event; drift to "Foggy"; time shifts to "Dusk".
	w := NewWorldTick(tables, &scriptedRandom{floats: []float64{0.99, 0.01, 0.01}, ints: []int{3, 4}})
	s := models.NewGameState()

	notices := w.Run(s)
	if s.World.Weather != "Foggy" || s.World.TimeOfDay != "Dusk" {
		t.Errorf("expected Foggy at Dusk, got %q at %q", s.World.Weather, s.World.TimeOfDay)
	}
	if len(notices) != 2 || notices[0].Kind != NoticeWeather || notices[1].Kind != NoticeTime {
		t.Errorf("expected weather and time notices, got %+v", notices)
	}
}

func TestWorldTickDriftToSameWeather(t *testing.T) {
	// drift picks "Clear", which is already the weather; time does not change.
	w := NewWorldTick(testPack(t).World, &scriptedRandom{floats: []float64{0.99, 0.01, 0.99}, ints: []int{0}})
	s := models.NewGameState()
	if notices := w.Run(s); len(notices) != 0 {
		t.Errorf("unchanged weather must be silent, got %+v", notices)
	}
}

func TestWorldTickBoundsRecentEvents(t *testing.T) {
	w := NewWorldTick(testPack(t).World, &scriptedRandom{defaultFloat: 0.01})
	s := models.NewGameState()
	for i := 0; i < 10; i++ {
		w.Run(s)
	}
	if len(s.World.RecentEvents) != models.MaxRecentEvents {
		t.Errorf("expected %d recent events, got %d", models.MaxRecentEvents, len(s.World.RecentEvents))
	}
}
