package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/111acge/DNDGP/internal/dice"
	"github.com/111acge/DNDGP/internal/engine"
	"github.com/111acge/DNDGP/internal/models"
)

// StoryLength is how many past turns /story shows.
const StoryLength = 5

// NarratorDown is shown when a turn could not be resolved at all.
const NarratorDown = "The dungeon master could not respond."

type sessionState int

const (
	stateName sessionState = iota
	stateClass
	statePlaying
	stateResolving
	stateGameOver
)

type model struct {
	state     sessionState
	engine    *engine.Engine
	snap      *models.GameState
	name      string
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD75F")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87AF87"))

	worldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87AFD7")).
			Italic(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "Name your adventurer..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	return model{
		state:     stateName,
		engine:    eng,
		snap:      eng.Snapshot(),
		textInput: ti,
		viewport:  viewport.New(60, 20),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type turnResolvedMsg struct {
	result *engine.TurnResult
	snap   *models.GameState
	err    error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submit()
		}

		if m.state == stateGameOver {
			switch strings.ToLower(msg.String()) {
			case "y":
				m.state = stateName
				m.gameLog = ""
				m.textInput.Placeholder = "Name your adventurer..."
				m.textInput.Reset()
				return m, nil
			case "n", "q":
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 1)
		m.viewport.SetContent(m.gameLog)

	case turnResolvedMsg:
		m.state = statePlaying
		if msg.err != nil {
			m.appendLog(dangerStyle.Render(NarratorDown))
			return m, nil
		}
		m.snap = msg.snap
		m.appendLog(m.renderTurn(msg.result))
		if msg.result.GameOver {
			m.state = stateGameOver
		}
		return m, nil
	}

	if m.state == stateName || m.state == stateClass || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// submit handles Enter for whichever screen is active.
func (m model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())

	switch m.state {
	case stateName:
		m.name = input
		m.state = stateClass
		m.textInput.Placeholder = "Pick a class by number or name..."
		m.textInput.Reset()
		return m, nil

	case stateClass:
		m.engine.Restart(m.name, m.pickClass(input))
		m.snap = m.engine.Snapshot()
		m.state = statePlaying
		m.textInput.Placeholder = "What do you do?"
		m.textInput.Reset()
		m.gameLog = ""
		m.appendLog(m.renderIntro())
		return m, nil

	case statePlaying:
		if input == "" {
			return m, nil
		}
		m.textInput.Reset()
		m.appendLog(userStyle.Width(m.logWidth()).Render("> " + input))

		if c, ok := engine.ParseCommand(input); ok {
			if c == engine.CommandQuit {
				return m, tea.Quit
			}
			m.appendLog(m.runCommand(c))
			return m, nil
		}

		m.state = stateResolving
		return m, m.processTurn(input)
	}

	return m, nil
}

// pickClass accepts a 1-based index into the class list or a class id or name.
func (m model) pickClass(input string) string {
	classes := m.engine.Classes()
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(classes) {
		return classes[n-1].ID
	}
	return input
}

func (m model) runCommand(c engine.Command) string {
	s := m.snap
	switch c {
	case engine.CommandHelp:
		return helpText(m.engine.NarratorEnabled())

	case engine.CommandStatus:
		return fmt.Sprintf(
			"%s the %s\nHealth %d/%d  Mana %d/%d\nStrength %d  Agility %d  Intelligence %d\nGold %s\nLocation: %s\n%s",
			s.CharacterName, s.CharacterClass,
			s.Health, s.MaxHealth, s.Mana, s.MaxMana,
			s.Strength, s.Agility, s.Intelligence,
			humanize.Comma(int64(s.Gold)),
			s.Location, s.Environment,
		)

	case engine.CommandInventory:
		if len(s.Inventory) == 0 {
			return "Your pack is empty."
		}
		return "You carry:\n" + bulletList(s.Inventory)

	case engine.CommandStory:
		entries := s.RecentHistory(StoryLength)
		if len(entries) == 0 {
			return "Your story has not begun yet."
		}
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "> %s\n  %s\n", e.Action, e.Response)
		}
		return strings.TrimRight(b.String(), "\n")

	case engine.CommandRoll:
		roll, band := m.engine.RollD20()
		line := fmt.Sprintf("You roll a d20: %d", roll)
		if band != dice.BandNormal {
			line += " (" + band.String() + ")"
		}
		return rollStyle.Render(line)
	}
	return ""
}

func helpText(narrated bool) string {
	mode := "Mode: offline. Actions are resolved by the built-in rules."
	if narrated {
		mode = "Mode: AI dungeon master."
	}
	return strings.Join([]string{
		mode,
		"Type what your character does, or use a command:",
		"  /help       show this help",
		"  /status     show your character",
		"  /inventory  list what you carry",
		"  /story      replay the last few turns",
		"  /roll       roll a free d20",
		"  /quit       leave the game",
	}, "\n")
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateName:
		s = fmt.Sprintf(
			"Welcome, traveller.\n\n%s\n\n%s",
			"What is your name?",
			m.textInput.View(),
		)

	case stateClass:
		var b strings.Builder
		for i, c := range m.engine.Classes() {
			fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, c.Name, c.Description)
		}
		s = fmt.Sprintf("Choose your class:\n\n%s\n%s", b.String(), m.textInput.View())

	case statePlaying, stateResolving, stateGameOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		footer := "\n" + m.textInput.View()
		help := helpStyle.Render("Commands: /help, /status, /inventory, /story, /roll, /quit")
		switch m.state {
		case stateResolving:
			footer = "\n  The dungeon master considers your action..."
		case stateGameOver:
			footer = "\n" + dangerStyle.Render("Your adventure has ended. Start a new one? (y/n)")
			help = ""
		}

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			footer,
			"\n"+help,
		)
	}

	return "\n" + s + "\n"
}

func (m model) renderIntro() string {
	s := m.snap
	header := gameStyle.Bold(true).Render(fmt.Sprintf("%s the %s", s.CharacterName, s.CharacterClass))
	body := gameStyle.Width(m.logWidth()).Render(s.Location + "\n" + s.Environment)
	return header + "\n\n" + body + "\n\n" + helpStyle.Render(helpText(m.engine.NarratorEnabled()))
}

func (m model) renderTurn(r *engine.TurnResult) string {
	w := m.logWidth()
	var parts []string
	if r.Description != "" {
		parts = append(parts, gameStyle.Width(w).Render(r.Description))
	}
	if r.Check != nil {
		line := fmt.Sprintf("Roll: %d against %d, %s", r.Check.Roll, r.Check.Difficulty, r.Check.Tag())
		if r.Check.Band != dice.BandNormal {
			line += " (" + r.Check.Band.String() + ")"
		}
		parts = append(parts, rollStyle.Render(line))
	}
	parts = append(parts, gameStyle.Width(w).Render(r.Narrative))
	for _, n := range r.Notices {
		parts = append(parts, noticeStyle.Render("  • "+n.Text))
	}
	for _, n := range r.World {
		parts = append(parts, worldStyle.Render("  ~ "+n.Text))
	}
	if r.GameOver {
		parts = append(parts, dangerStyle.Render("You have fallen."))
	}
	return strings.Join(parts, "\n")
}

func (m model) renderState() string {
	s := m.snap
	if s == nil {
		return ""
	}

	character := titleStyle.Render("CHARACTER") + "\n" +
		fmt.Sprintf("%s the %s\nTurn %d\n\n", s.CharacterName, s.CharacterClass, s.Turn)

	stats := titleStyle.Render("STATS") + "\n" + fmt.Sprintf(
		"Health: %d/%d\nMana: %d/%d\nStrength: %d\nAgility: %d\nIntelligence: %d\nGold: %s\n\n",
		s.Health, s.MaxHealth, s.Mana, s.MaxMana,
		s.Strength, s.Agility, s.Intelligence, humanize.Comma(int64(s.Gold)),
	)

	location := titleStyle.Render("LOCATION") + "\n" + s.Location + "\n" +
		fmt.Sprintf("%s, %s\n\n", s.World.Weather, s.World.TimeOfDay)

	inventory := titleStyle.Render("INVENTORY") + "\n"
	if len(s.Inventory) == 0 {
		inventory += "(empty)\n"
	} else {
		inventory += bulletList(s.Inventory) + "\n"
	}

	enemies := ""
	if len(s.Enemies) > 0 {
		enemies = "\n" + titleStyle.Render("ENEMIES") + "\n" + bulletList(s.Enemies) + "\n"
	}

	content := character + stats + location + inventory + enemies

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func (m *model) appendLog(s string) {
	if m.gameLog != "" {
		m.gameLog += "\n\n"
	}
	m.gameLog += s
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 60
	}
	return int(float64(m.width) * 0.75)
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// processTurn resolves the action off the UI goroutine. Input is blocked
// until the result arrives, so the engine is never used concurrently.
func (m model) processTurn(action string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		result, err := eng.ProcessTurn(context.Background(), action)
		if err != nil {
			return turnResolvedMsg{err: err}
		}
		return turnResolvedMsg{result: result, snap: eng.Snapshot()}
	}
}

func Run(eng *engine.Engine) error {
	p := tea.NewProgram(NewModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
