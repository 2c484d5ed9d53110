// Package content loads the data tables that drive character classes, the
// fallback resolver and the world tick.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/111acge/DNDGP/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Pack is the full set of game tables.
type Pack struct {
	Classes  []Class  `yaml:"classes"`
	Fallback Fallback `yaml:"fallback"`
	World    World    `yaml:"world"`
}

// Class adjusts the starting state. Zero fields keep the defaults.
type Class struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	MaxHealth    int      `yaml:"max_health"`
	MaxMana      int      `yaml:"max_mana"`
	Strength     int      `yaml:"strength"`
	Agility      int      `yaml:"agility"`
	Intelligence int      `yaml:"intelligence"`
	Gold         int      `yaml:"gold"`
	Items        []string `yaml:"items"`
}

// Check is a keyword-triggered d20 action of the fallback resolver.
type Check struct {
	Keywords   []string `yaml:"keywords"`
	Difficulty int      `yaml:"difficulty"`
	Intro      string   `yaml:"intro"`
	Success    string   `yaml:"success"`
	Failure    string   `yaml:"failure"`
}

type Attack struct {
	Check      `yaml:",inline"`
	GoldReward int `yaml:"gold_reward"`
	Damage     int `yaml:"damage"`
}

type Search struct {
	Check `yaml:",inline"`
	Items []string `yaml:"items"`
}

type Potion struct {
	Item    string `yaml:"item"`
	Heal    int    `yaml:"heal"`
	Success string `yaml:"success"`
	Missing string `yaml:"missing"`
}

// Fallback holds the tables for resolving actions without a narrator.
type Fallback struct {
	Attack Attack   `yaml:"attack"`
	Search Search   `yaml:"search"`
	Potion Potion   `yaml:"potion"`
	Flavor []string `yaml:"flavor"`
}

// Event is an ambient world event.
type Event struct {
	Description string         `yaml:"description"`
	Effects     models.Effects `yaml:"effects"`
}

// World holds the world tick tables.
type World struct {
	EventChance float64  `yaml:"event_chance"`
	DriftChance float64  `yaml:"drift_chance"`
	TimeChance  float64  `yaml:"time_chance"`
	Weather     []string `yaml:"weather"`
	Times       []string `yaml:"times"`
	Events      []Event  `yaml:"events"`
}

// Default returns the pack compiled into the binary.
func Default() (*Pack, error) {
	return Parse(defaultContent)
}

// Load reads a pack from path. An empty path returns the default pack.
func Load(path string) (*Pack, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML pack.
func Parse(raw []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("content yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every table that the engine cannot run without.
func (p *Pack) Validate() error {
	var errs []error
	if len(p.Classes) == 0 {
		errs = append(errs, errors.New("no classes defined"))
	}
	seen := make(map[string]bool)
	for _, c := range p.Classes {
		if c.ID == "" {
			errs = append(errs, errors.New("class without id"))
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate class %q", c.ID))
		}
		seen[c.ID] = true
	}
	if len(p.Fallback.Attack.Keywords) == 0 {
		errs = append(errs, errors.New("fallback.attack: no keywords"))
	}
	if len(p.Fallback.Search.Keywords) == 0 {
		errs = append(errs, errors.New("fallback.search: no keywords"))
	}
	if len(p.Fallback.Search.Items) == 0 {
		errs = append(errs, errors.New("fallback.search: no items"))
	}
	if p.Fallback.Potion.Item == "" {
		errs = append(errs, errors.New("fallback.potion: no item"))
	}
	if len(p.Fallback.Flavor) == 0 {
		errs = append(errs, errors.New("fallback: no flavor text"))
	}
	for name, v := range map[string]float64{
		"event_chance": p.World.EventChance,
		"drift_chance": p.World.DriftChance,
		"time_chance":  p.World.TimeChance,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("world.%s: %v is not a probability", name, v))
		}
	}
	if len(p.World.Weather) == 0 || len(p.World.Times) == 0 {
		errs = append(errs, errors.New("world: weather and times must not be empty"))
	}
	if len(p.World.Events) == 0 {
		errs = append(errs, errors.New("world: no events"))
	}
	return errors.Join(errs...)
}

// Class looks up a class by id or display name, case-insensitively.
func (p *Pack) Class(id string) (Class, bool) {
	for _, c := range p.Classes {
		if strings.EqualFold(c.ID, id) || strings.EqualFold(c.Name, id) {
			return c, true
		}
	}
	return Class{}, false
}

// NewGameState builds a starting state for a named character of the given class.
// An unknown class falls back to the first one in the pack.
func (p *Pack) NewGameState(name, classID string) *models.GameState {
	s := models.NewGameState()
	if name = strings.TrimSpace(name); name != "" {
		s.CharacterName = name
	}
	c, ok := p.Class(classID)
	if !ok && len(p.Classes) > 0 {
		c = p.Classes[0]
	}
	c.apply(s)
	return s
}

func (c Class) apply(s *models.GameState) {
	if c.Name != "" {
		s.CharacterClass = c.Name
	}
	if c.MaxHealth > 0 {
		s.Health, s.MaxHealth = c.MaxHealth, c.MaxHealth
	}
	if c.MaxMana > 0 {
		s.Mana, s.MaxMana = c.MaxMana, c.MaxMana
	}
	if c.Strength > 0 {
		s.Strength = c.Strength
	}
	if c.Agility > 0 {
		s.Agility = c.Agility
	}
	if c.Intelligence > 0 {
		s.Intelligence = c.Intelligence
	}
	if c.Gold > 0 {
		s.Gold = c.Gold
	}
	s.Inventory = append(s.Inventory, c.Items...)
}
