package models

// MaxHistory is how many story entries a GameState keeps.
const MaxHistory = 15

// MaxRecentEvents is how many world events are remembered for the narrator.
const MaxRecentEvents = 5

// HealingPotion is the inventory item the fallback resolver knows how to drink.
const HealingPotion = "healing potion"

// WorldState holds the ambient conditions of the world.
type WorldState struct {
	Weather      string
	TimeOfDay    string
	RecentEvents []string
}

// StoryEntry represents a single resolved turn as it is fed back to the narrator.
type StoryEntry struct {
	Action   string
	Response string
}

// GameState represents the current dynamic state of the game.
type GameState struct {
	CharacterName  string
	CharacterClass string

	Health       int
	MaxHealth    int
	Mana         int
	MaxMana      int
	Strength     int
	Agility      int
	Intelligence int
	Gold         int

	Inventory   []string
	Location    string
	Environment string
	Enemies     []string

	World      WorldState
	History    []StoryEntry
	Turn       int
	LastAction string
}

// NewGameState returns a fresh adventurer standing at the edge of the forest.
func NewGameState() *GameState {
	return &GameState{
		CharacterName:  "Adventurer",
		CharacterClass: "Warrior",
		Health:         100,
		MaxHealth:      100,
		Mana:           50,
		MaxMana:        50,
		Strength:       12,
		Agility:        14,
		Intelligence:   13,
		Gold:           50,
		Inventory:      []string{"rusty short sword", "leather armor", HealingPotion, "torch"},
		Location:       "Edge of the Whispering Forest",
		Environment: "An ancient forest of towering oaks that blot out the sky. Thick drifts of fallen " +
			"leaves cover the ground and the howls of unseen creatures echo in the distance.",
		Enemies: []string{},
		World: WorldState{
			Weather:      "Clear",
			TimeOfDay:    "Afternoon",
			RecentEvents: []string{},
		},
		History: []StoryEntry{},
	}
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Inventory = append([]string(nil), s.Inventory...)
	c.Enemies = append([]string(nil), s.Enemies...)
	c.World.RecentEvents = append([]string(nil), s.World.RecentEvents...)
	c.History = append([]StoryEntry(nil), s.History...)
	return &c
}

// AppendHistory records a turn, dropping the oldest entries beyond MaxHistory.
func (s *GameState) AppendHistory(entry StoryEntry) {
	s.History = append(s.History, entry)
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = append([]StoryEntry(nil), s.History[over:]...)
	}
}

// RecentHistory returns up to n of the newest story entries, oldest first.
func (s *GameState) RecentHistory(n int) []StoryEntry {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if n > len(s.History) {
		n = len(s.History)
	}
	return s.History[len(s.History)-n:]
}

// RecordEvent remembers a world event, newest first.
func (s *GameState) RecordEvent(description string) {
	events := append([]string{description}, s.World.RecentEvents...)
	if len(events) > MaxRecentEvents {
		events = events[:MaxRecentEvents]
	}
	s.World.RecentEvents = events
}

// HasItem reports whether the inventory holds at least one of item.
func (s *GameState) HasItem(item string) bool {
	return indexOf(s.Inventory, item) >= 0
}

// HasEnemy reports whether the enemy is currently active.
func (s *GameState) HasEnemy(enemy string) bool {
	return indexOf(s.Enemies, enemy) >= 0
}

// RemoveItem removes the first occurrence of item and reports whether it was present.
func (s *GameState) RemoveItem(item string) bool {
	var ok bool
	s.Inventory, ok = removeFirst(s.Inventory, item)
	return ok
}

// AddEnemy adds an enemy unless it is already active.
func (s *GameState) AddEnemy(enemy string) bool {
	if s.HasEnemy(enemy) {
		return false
	}
	s.Enemies = append(s.Enemies, enemy)
	return true
}

// RemoveEnemy removes an active enemy and reports whether it was present.
func (s *GameState) RemoveEnemy(enemy string) bool {
	var ok bool
	s.Enemies, ok = removeFirst(s.Enemies, enemy)
	return ok
}

// Dead reports whether the adventurer has run out of health.
func (s *GameState) Dead() bool {
	return s.Health <= 0
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func removeFirst(list []string, v string) ([]string, bool) {
	i := indexOf(list, v)
	if i < 0 {
		return list, false
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out, true
}
