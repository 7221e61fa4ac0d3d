package models

import "strings"

// DateLayout is the ISO-8601 form dates are persisted and searched in.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Matches reports whether the entry's title or content contains term,
// ignoring case, or its UTC ISO date contains term verbatim. An empty term
// matches every entry.
func (e JournalEntry) Matches(term string) bool {
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Title), lower) ||
		strings.Contains(strings.ToLower(e.Content), lower) ||
		strings.Contains(e.Date.UTC().Format(DateLayout), term)
}

// Filter returns the entries matching term, keeping their order.
func Filter(entries []JournalEntry, term string) []JournalEntry {
	out := make([]JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.Matches(term) {
			out = append(out, e)
		}
	}
	return out
}
