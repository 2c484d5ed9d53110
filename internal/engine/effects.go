package engine

import (
	"fmt"

	"github.com/111acge/DNDGP/internal/models"
)

// NoticeKind classifies a state change reported to the player.
type NoticeKind string

const (
	NoticeStat         NoticeKind = "stat"
	NoticeItemGained   NoticeKind = "item_gained"
	NoticeItemLost     NoticeKind = "item_lost"
	NoticeEnemyAppears NoticeKind = "enemy_appears"
	NoticeEnemyGone    NoticeKind = "enemy_defeated"
	NoticeLocation     NoticeKind = "location"
	NoticeWeather      NoticeKind = "weather"
	NoticeTime         NoticeKind = "time"
	NoticeWorldEvent   NoticeKind = "world_event"
)

// Notice is one human-readable change to the game state.
type Notice struct {
	Kind    NoticeKind
	Stat    models.Stat
	Delta   int
	Value   int
	Subject string
	Text    string
}

// statRule bounds a numeric stat. upper is nil for stats without a ceiling.
type statRule struct {
	stat  models.Stat
	label string
	lower int
	upper func(*models.GameState) int
}

var statRules = []statRule{
	{models.StatHealth, "Health", 0, func(s *models.GameState) int { return s.MaxHealth }},
	{models.StatMana, "Mana", 0, func(s *models.GameState) int { return s.MaxMana }},
	{models.StatStrength, "Strength", 1, nil},
	{models.StatAgility, "Agility", 1, nil},
	{models.StatIntelligence, "Intelligence", 1, nil},
	{models.StatGold, "Gold", 0, nil},
}

// Apply writes fx into state, clamping every stat to its bounds, and returns
// one notice per change. Removing something that is not there is a no-op.
func Apply(state *models.GameState, fx models.Effects) []Notice {
	var notices []Notice

	for _, rule := range statRules {
		d := fx.Delta(rule.stat)
		if d == nil || *d == 0 {
			continue
		}
		v := state.StatValue(rule.stat) + *d
		if v < rule.lower {
			v = rule.lower
		}
		text := fmt.Sprintf("%s %+d (now %d)", rule.label, *d, v)
		if rule.upper != nil {
			ceiling := rule.upper(state)
			if v > ceiling {
				v = ceiling
			}
			text = fmt.Sprintf("%s %+d (now %d/%d)", rule.label, *d, v, ceiling)
		}
		state.SetStat(rule.stat, v)
		notices = append(notices, Notice{Kind: NoticeStat, Stat: rule.stat, Delta: *d, Value: v, Text: text})
	}

	for _, item := range fx.AddItems {
		state.Inventory = append(state.Inventory, item)
		notices = append(notices, Notice{Kind: NoticeItemGained, Subject: item, Text: "Gained item: " + item})
	}
	for _, item := range fx.RemoveItems {
		if state.RemoveItem(item) {
			notices = append(notices, Notice{Kind: NoticeItemLost, Subject: item, Text: "Lost item: " + item})
		}
	}

	if fx.LocationChange != nil {
		old := state.Location
		state.Location = *fx.LocationChange
		notices = append(notices, Notice{
			Kind:    NoticeLocation,
			Subject: state.Location,
			Text:    fmt.Sprintf("Location: %s → %s", old, state.Location),
		})
	}
	if fx.EnvironmentChange != nil {
		state.Environment = *fx.EnvironmentChange
	}

	for _, enemy := range fx.AddEnemies {
		if state.AddEnemy(enemy) {
			notices = append(notices, Notice{Kind: NoticeEnemyAppears, Subject: enemy, Text: "Enemy appears: " + enemy})
		}
	}
	for _, enemy := range fx.RemoveEnemies {
		if state.RemoveEnemy(enemy) {
			notices = append(notices, Notice{Kind: NoticeEnemyGone, Subject: enemy, Text: "Enemy defeated: " + enemy})
		}
	}

	if fx.WeatherChange != nil && *fx.WeatherChange != state.World.Weather {
		old := state.World.Weather
		state.World.Weather = *fx.WeatherChange
		notices = append(notices, Notice{
			Kind:    NoticeWeather,
			Subject: state.World.Weather,
			Text:    fmt.Sprintf("Weather: %s → %s", old, state.World.Weather),
		})
	}
	if fx.TimeChange != nil && *fx.TimeChange != state.World.TimeOfDay {
		old := state.World.TimeOfDay
		state.World.TimeOfDay = *fx.TimeChange
		notices = append(notices, Notice{
			Kind:    NoticeTime,
			Subject: state.World.TimeOfDay,
			Text:    fmt.Sprintf("Time passes: %s → %s", old, state.World.TimeOfDay),
		})
	}

	return notices
}
