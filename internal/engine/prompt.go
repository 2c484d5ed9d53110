package engine

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/111acge/DNDGP/internal/models"
	"github.com/111acge/DNDGP/internal/narrator"
)

// PromptHistory is how many past exchanges are replayed to the narrator.
const PromptHistory = 3

//go:embed prompts/turn.txt
var processTurnPrompt string

var turnTemplate = template.Must(template.New("process_turn").Parse(processTurnPrompt))

// BuildPrompt assembles the conversation for one turn: the system instructions
// with the live state, the last few exchanges, then the current action.
func BuildPrompt(state *models.GameState, action string) ([]narrator.Message, error) {
	var buf bytes.Buffer
	data := struct {
		Name, Class                      string
		Health, MaxHealth, Mana, MaxMana int
		Strength, Agility, Intelligence  int
		Gold                             int
		Location, Environment            string
		Inventory, Enemies               string
		Weather, TimeOfDay               string
		RecentEvents                     string
	}{
		Name:         state.CharacterName,
		Class:        state.CharacterClass,
		Health:       state.Health,
		MaxHealth:    state.MaxHealth,
		Mana:         state.Mana,
		MaxMana:      state.MaxMana,
		Strength:     state.Strength,
		Agility:      state.Agility,
		Intelligence: state.Intelligence,
		Gold:         state.Gold,
		Location:     state.Location,
		Environment:  state.Environment,
		Inventory:    listOrNone(state.Inventory),
		Enemies:      listOrNone(state.Enemies),
		Weather:      state.World.Weather,
		TimeOfDay:    state.World.TimeOfDay,
		RecentEvents: strings.Join(state.World.RecentEvents, "; "),
	}
	if err := turnTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	messages := []narrator.Message{{Role: narrator.RoleSystem, Content: buf.String()}}
	for _, entry := range state.RecentHistory(PromptHistory) {
		messages = append(messages,
			narrator.Message{Role: narrator.RoleUser, Content: actionLine(entry.Action)},
			narrator.Message{Role: narrator.RoleAssistant, Content: entry.Response},
		)
	}
	messages = append(messages, narrator.Message{Role: narrator.RoleUser, Content: actionLine(action)})
	return messages, nil
}

func actionLine(action string) string {
	return "Player action: " + action
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
