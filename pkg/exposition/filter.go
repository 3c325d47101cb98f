package exposition

import "strings"

// FilterRelevant reduces raw exposition text to the lines that concern the
// allowed metric names:
//
//   - # HELP and # TYPE lines whose declared name contains an allowed name
//   - sample lines whose name token starts with an allowed name
//
// Every other line is dropped. Kept lines are returned unchanged (minus a
// trailing carriage return), newline-terminated. Filtering already-filtered
// text is a no-op.
//
// An empty allow-list keeps the text as is. An upstream configured without
// families is parsed whole rather than reduced to nothing.
func FilterRelevant(text string, allowed []string) string {
	if len(allowed) == 0 {
		return text
	}

	var b strings.Builder
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		if relevant(line, allowed) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func relevant(line string, allowed []string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if trimmed[0] == '#' {
		keyword, rest := splitToken(strings.TrimLeft(trimmed[1:], " \t"))
		if keyword != "HELP" && keyword != "TYPE" {
			return false
		}
		name, _ := splitToken(rest)
		if name == "" {
			return false
		}
		for _, a := range allowed {
			if a != "" && strings.Contains(name, a) {
				return true
			}
		}
		return false
	}

	for _, a := range allowed {
		if a != "" && strings.HasPrefix(trimmed, a) {
			return true
		}
	}
	return false
}
