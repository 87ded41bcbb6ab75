// Package bot turns chat commands into ledger operations and renders the
// replies.
package bot

import "strings"

// Command is a parsed "/name@bot arg1 arg2" message.
type Command struct {
	Name string
	// Mention is the bot username after '@', if any.
	Mention string
	Args    []string
}

// ParseCommand returns false for text that is not a bot command.
func ParseCommand(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") || len(fields[0]) == 1 {
		return Command{}, false
	}

	name := fields[0][1:]
	var mention string
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name, mention = name[:at], name[at+1:]
	}
	if name == "" {
		return Command{}, false
	}
	return Command{
		Name:    strings.ToLower(name),
		Mention: mention,
		Args:    fields[1:],
	}, true
}

// AddressedTo reports whether the command targets botUsername. Commands
// without a mention target every bot in the chat.
func (c Command) AddressedTo(botUsername string) bool {
	if c.Mention == "" || botUsername == "" {
		return true
	}
	return strings.EqualFold(c.Mention, strings.TrimPrefix(botUsername, "@"))
}
