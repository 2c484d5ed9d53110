package models

// Stat names one of the numeric fields an Effects value can change.
type Stat string

const (
	StatHealth       Stat = "health"
	StatMana         Stat = "mana"
	StatStrength     Stat = "strength"
	StatAgility      Stat = "agility"
	StatIntelligence Stat = "intelligence"
	StatGold         Stat = "gold"
)

// Stats lists every numeric stat in the order changes are applied.
var Stats = []Stat{StatHealth, StatMana, StatStrength, StatAgility, StatIntelligence, StatGold}

// Effects is a set of changes to apply to a GameState. Nil fields mean "no change".
type Effects struct {
	Health       *int `yaml:"health,omitempty"`
	Mana         *int `yaml:"mana,omitempty"`
	Gold         *int `yaml:"gold,omitempty"`
	Strength     *int `yaml:"strength,omitempty"`
	Agility      *int `yaml:"agility,omitempty"`
	Intelligence *int `yaml:"intelligence,omitempty"`

	AddItems      []string `yaml:"add_items,omitempty"`
	RemoveItems   []string `yaml:"remove_items,omitempty"`
	AddEnemies    []string `yaml:"add_enemies,omitempty"`
	RemoveEnemies []string `yaml:"remove_enemies,omitempty"`

	LocationChange    *string `yaml:"location_change,omitempty"`
	EnvironmentChange *string `yaml:"environment_change,omitempty"`

	// Only the world tick drives these.
	WeatherChange *string `yaml:"weather_change,omitempty"`
	TimeChange    *string `yaml:"time_change,omitempty"`
}

// Delta returns the change for stat, or nil when it is absent.
func (e Effects) Delta(stat Stat) *int {
	switch stat {
	case StatHealth:
		return e.Health
	case StatMana:
		return e.Mana
	case StatStrength:
		return e.Strength
	case StatAgility:
		return e.Agility
	case StatIntelligence:
		return e.Intelligence
	case StatGold:
		return e.Gold
	}
	return nil
}

// SetDelta replaces the change for stat.
func (e *Effects) SetDelta(stat Stat, v int) {
	p := &v
	switch stat {
	case StatHealth:
		e.Health = p
	case StatMana:
		e.Mana = p
	case StatStrength:
		e.Strength = p
	case StatAgility:
		e.Agility = p
	case StatIntelligence:
		e.Intelligence = p
	case StatGold:
		e.Gold = p
	}
}

// Clone returns a copy that shares no pointers or slices with e.
func (e Effects) Clone() Effects {
	c := Effects{
		AddItems:          append([]string(nil), e.AddItems...),
		RemoveItems:       append([]string(nil), e.RemoveItems...),
		AddEnemies:        append([]string(nil), e.AddEnemies...),
		RemoveEnemies:     append([]string(nil), e.RemoveEnemies...),
		LocationChange:    cloneString(e.LocationChange),
		EnvironmentChange: cloneString(e.EnvironmentChange),
		WeatherChange:     cloneString(e.WeatherChange),
		TimeChange:        cloneString(e.TimeChange),
	}
	for _, stat := range Stats {
		if d := e.Delta(stat); d != nil {
			c.SetDelta(stat, *d)
		}
	}
	return c
}

// Empty reports whether applying e would change nothing.
func (e Effects) Empty() bool {
	for _, stat := range Stats {
		if d := e.Delta(stat); d != nil && *d != 0 {
			return false
		}
	}
	return len(e.AddItems) == 0 && len(e.RemoveItems) == 0 &&
		len(e.AddEnemies) == 0 && len(e.RemoveEnemies) == 0 &&
		e.LocationChange == nil && e.EnvironmentChange == nil &&
		e.WeatherChange == nil && e.TimeChange == nil
}

// Int returns a pointer to v, for building Effects literals.
func Int(v int) *int { return &v }

// String returns a pointer to v, for building Effects literals.
func String(v string) *string { return &v }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StatValue returns the current value of stat.
func (s *GameState) StatValue(stat Stat) int {
	if p := s.statField(stat); p != nil {
		return *p
	}
	return 0
}

// SetStat stores v into stat without any clamping.
func (s *GameState) SetStat(stat Stat, v int) {
	if p := s.statField(stat); p != nil {
		*p = v
	}
}

func (s *GameState) statField(stat Stat) *int {
	switch stat {
	case StatHealth:
		return &s.Health
	case StatMana:
		return &s.Mana
	case StatStrength:
		return &s.Strength
	case StatAgility:
		return &s.Agility
	case StatIntelligence:
		return &s.Intelligence
	case StatGold:
		return &s.Gold
	}
	return nil
}
