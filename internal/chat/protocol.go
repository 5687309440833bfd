package chat

import "strings"

const (
	nickPrefix  = "#nick "
	listCommand = "#list"
	listHeader  = "Connected users:\n"

	JoinNotice  = " has joined the chat."
	LeaveNotice = " has left the chat."
)

// trimTerminator drops one trailing "\n" and then one trailing "\r".
func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// ParseNick extracts the name from a "#nick <name>" line. The name is
// everything after the prefix minus the line terminator; an empty name
// does not match.
func ParseNick(line string) (string, bool) {
	if !strings.HasPrefix(line, nickPrefix) {
		return "", false
	}
	name := trimTerminator(line[len(nickPrefix):])
	if name == "" {
		return "", false
	}
	return name, true
}

func IsList(line string) bool {
	return trimTerminator(line) == listCommand
}

// FormatLine renders "<nick>: <message>\n" with one trailing newline
// stripped from message first.
func FormatLine(nick, message string) string {
	return nick + ": " + trimTerminator(message) + "\n"
}

func FormatList(nicks []string) string {
	var b strings.Builder
	b.WriteString(listHeader)
	for _, n := range nicks {
		b.WriteString(" - ")
		b.WriteString(n)
		b.WriteString("\n")
	}
	return b.String()
}
