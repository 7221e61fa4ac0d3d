package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/ember/internal/client/models"
)

// Repository stores persisted journal records scoped by owner.
type Repository interface {
	// Insert adds a new record. Records are never updated in place.
	Insert(ctx context.Context, rec *models.Record) error

	// ListByOwner returns the user's records ordered by Date, newest first.
	ListByOwner(ctx context.Context, userID string) ([]models.Record, error)

	// GetByID returns one of the user's records, or common.ErrorNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.Record, error)
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanned holds the driver-level columns shared by both dialects before
// they are converted into a Record.
type scanned struct {
	insights   []byte
	moodTags   []byte
	duration   sql.NullString
	transcript sql.NullString
}

func (s *scanned) fill(rec *models.Record) error {
	var err error
	if rec.Insights, err = decodeList(s.insights); err != nil {
		return fmt.Errorf("decode insights: %w", err)
	}
	if rec.MoodTags, err = decodeList(s.moodTags); err != nil {
		return fmt.Errorf("decode mood_tags: %w", err)
	}
	rec.Duration = s.duration.String
	rec.Transcript = s.transcript.String
	return nil
}
