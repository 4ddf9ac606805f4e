package console

import "strings"

// Completer provides command completion for the console.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	commands := make([]string, 0, len(commandHelp))
	for _, c := range commandHelp {
		commands = append(commands, c.name)
	}
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
