package engine

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/111acge/DNDGP/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultDifficulty is used when the narrator asks for a roll without naming a difficulty.
const DefaultDifficulty = 15

//go:embed prompts/turn_outcome.schema.json
var turnOutcomeSchema string

var (
	outcomeSchema = jsonschema.MustCompileString("turn_outcome.schema.json", turnOutcomeSchema)
	jsonSpan      = regexp.MustCompile(`(?s)\{.*\}`)
)

// ErrNoOutcome means the response held no decodable JSON object and was kept as plain narration.
var ErrNoOutcome = errors.New("no outcome object in response")

// TurnOutcome is the structured reading of one narrator response.
type TurnOutcome struct {
	NeedsRoll      bool
	Difficulty     int
	Description    string
	SuccessOutcome string
	FailureOutcome string
	DirectOutcome  string
	Effects        models.Effects
}

// Interpret reads a narrator response. It never fails: a response without a
// decodable JSON object becomes a direct outcome carrying the raw text, and
// fields of the wrong type are coerced or ignored.
func Interpret(text string) TurnOutcome {
	outcome, _ := ParseOutcome(text)
	return outcome
}

// ParseOutcome is Interpret that also explains what it could not use. The
// returned outcome is usable whether or not err is nil. errors.Is(err,
// ErrNoOutcome) reports that the whole response became plain narration;
// any other error lists fields that did not match the outcome schema.
func ParseOutcome(text string) (TurnOutcome, error) {
	span := jsonSpan.FindString(stripFences(text))
	if span == "" {
		return directOutcome(text), ErrNoOutcome
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return directOutcome(text), fmt.Errorf("%w: %v", ErrNoOutcome, err)
	}

	d := &decoder{}
	out := d.outcome(fields)
	if err := outcomeSchema.Validate(any(fields)); err != nil {
		return out, fmt.Errorf("outcome fields coerced or ignored %v: %w", d.issues, err)
	}
	return out, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return s
}

func directOutcome(text string) TurnOutcome {
	return TurnOutcome{DirectOutcome: text}
}

// decoder reads outcome fields one at a time, remembering every field it had
// to coerce or drop.
type decoder struct {
	issues []string
}

func (d *decoder) outcome(m map[string]any) TurnOutcome {
	needsRoll, _ := d.boolean(m, "needs_roll")
	out := TurnOutcome{
		NeedsRoll:      needsRoll,
		Description:    d.text(m, "description"),
		SuccessOutcome: d.text(m, "success_outcome"),
		FailureOutcome: d.text(m, "failure_outcome"),
		DirectOutcome:  d.text(m, "direct_outcome"),
	}
	if out.NeedsRoll {
		out.Difficulty = DefaultDifficulty
		if v, ok := d.number(m, "difficulty"); ok {
			out.Difficulty = v
		}
	}

	switch fx := m["effects"].(type) {
	case nil:
	case map[string]any:
		out.Effects = d.effects(fx)
	default:
		d.issue("effects")
	}
	return out
}

func (d *decoder) effects(m map[string]any) models.Effects {
	fx := models.Effects{
		AddItems:          d.names(m, "add_items"),
		RemoveItems:       d.names(m, "remove_items"),
		AddEnemies:        d.names(m, "add_enemies"),
		RemoveEnemies:     d.names(m, "remove_enemies"),
		LocationChange:    nonBlank(d.text(m, "location_change")),
		EnvironmentChange: nonBlank(d.text(m, "environment_change")),
	}
	for _, stat := range models.Stats {
		if v, ok := d.number(m, string(stat)); ok {
			fx.SetDelta(stat, v)
		}
	}
	return fx
}

func (d *decoder) issue(field string) {
	d.issues = append(d.issues, field)
}

// boolean accepts a JSON boolean or a "true"/"false" string.
func (d *decoder) boolean(m map[string]any, key string) (bool, bool) {
	switch v := m[key].(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			d.issue(key)
			return b, true
		}
	}
	d.issue(key)
	return false, false
}

// number accepts a JSON number or a numeric string such as "+5", truncated toward zero.
func (d *decoder) number(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case nil:
		return 0, false
	case float64:
		return truncate(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) {
			d.issue(key)
			return truncate(f), true
		}
	}
	d.issue(key)
	return 0, false
}

func (d *decoder) text(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	}
	d.issue(key)
	return ""
}

// names accepts a list of strings, skipping other elements, or a single string.
func (d *decoder) names(m map[string]any, key string) []string {
	var raw []string
	switch v := m[key].(type) {
	case nil:
		return nil
	case string:
		d.issue(key)
		raw = []string{v}
	case []any:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				d.issue(key)
				continue
			}
			raw = append(raw, s)
		}
	default:
		d.issue(key)
		return nil
	}
	return nonEmpty(raw)
}

// truncate converts a JSON number toward zero, bounded to a sane range.
func truncate(f float64) int {
	const limit = math.MaxInt32
	switch {
	case f > limit:
		return limit
	case f < -limit:
		return -limit
	}
	return int(f)
}

func nonBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func nonEmpty(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
