// Package models defines the journal data types used by the Ember client.
package models

import (
	"fmt"
	"strings"
	"time"
)

// JournalEntry is the decrypted, user-facing form of a journal entry.
// Entries are immutable once saved.
type JournalEntry struct {
	ID    string
	Date  time.Time
	Title string
	// Content may contain simple markup.
	Content    string
	Insights   []string
	MoodTags   []string
	Duration   string
	Transcript string // empty when absent
}

// Summary is the one-line form used in listings.
func (e JournalEntry) Summary() string {
	s := fmt.Sprintf("%s  %s  %s", e.ID, e.Date.Local().Format("Jan 2, 2006 15:04"), e.Title)
	if len(e.MoodTags) > 0 {
		s += "  [" + strings.Join(e.MoodTags, ", ") + "]"
	}
	return s
}

// Record is the persisted form of an entry. Title, Content, each Insights
// item and Transcript hold either an envelope or, for rows written before
// encryption existed, raw plaintext. Nothing in the row says which.
type Record struct {
	ID         string
	UserID     string
	Date       time.Time
	Title      string
	Content    string
	Insights   []string
	Duration   string
	MoodTags   []string
	Transcript string // empty maps to NULL
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
