package catalog

import (
	"strconv"
	"strings"
)

// DeckEntry is one parsed line of a deck list.
type DeckEntry struct {
	Quantity int
	Name     string
}

// ParseDeckList parses deck-list text: one entry per line in the form
// "<quantity>[x] <card name>". Blank lines, comment lines starting with "//"
// or "#", and section markers ("sideboard", "commander") are skipped. A line
// with no leading quantity is treated as a single copy.
func ParseDeckList(text string) []DeckEntry {
	var entries []DeckEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		switch strings.ToLower(line) {
		case "sideboard", "commander":
			continue
		}

		qty := 1
		name := line
		if fields := strings.SplitN(line, " ", 2); len(fields) == 2 {
			if parsed, ok := parseQuantity(fields[0]); ok {
				qty = parsed
				name = strings.TrimSpace(fields[1])
			}
		}
		if name == "" || qty <= 0 {
			continue
		}
		entries = append(entries, DeckEntry{Quantity: qty, Name: name})
	}
	return entries
}

// parseQuantity accepts "2" or "2x" style leading quantities.
func parseQuantity(token string) (int, bool) {
	token = strings.TrimSuffix(strings.ToLower(token), "x")
	if token == "" {
		return 0, false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}
