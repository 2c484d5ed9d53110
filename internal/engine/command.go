package engine

import "strings"

// Command is a reserved input that bypasses turn resolution.
type Command string

const (
	CommandHelp      Command = "/help"
	CommandStatus    Command = "/status"
	CommandInventory Command = "/inventory"
	CommandStory     Command = "/story"
	CommandRoll      Command = "/roll"
	CommandQuit      Command = "/quit"
)

var commands = map[Command]bool{
	CommandHelp:      true,
	CommandStatus:    true,
	CommandInventory: true,
	CommandStory:     true,
	CommandRoll:      true,
	CommandQuit:      true,
}

// ParseCommand reports whether input is one of the reserved commands.
func ParseCommand(input string) (Command, bool) {
	c := Command(strings.ToLower(strings.TrimSpace(input)))
	return c, commands[c]
}
