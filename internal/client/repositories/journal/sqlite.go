package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/dbx"
)

// timeLayout matches JavaScript's toISOString, which sorts lexically.
const timeLayout = models.DateLayout

const sqliteColumns = `id, user_id, date, title, content, insights, duration, mood_tags, transcript, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Record) error {
	insights, err := encodeList(rec.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	moodTags, err := encodeList(rec.MoodTags)
	if err != nil {
		return fmt.Errorf("encode mood_tags: %w", err)
	}

	query := `INSERT INTO journal_entries (id, user_id, date, title, content, insights, duration, mood_tags, transcript)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Date.UTC().Format(timeLayout), rec.Title, rec.Content,
		insights, nullable(rec.Duration), moodTags, nullable(rec.Transcript))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, userID string) ([]models.Record, error) {
	query := `SELECT ` + sqliteColumns + ` FROM journal_entries WHERE user_id = ? ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Record, error) {
	query := `SELECT ` + sqliteColumns + ` FROM journal_entries WHERE id = ? AND user_id = ?`
	rec, err := scanSQLite(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*models.Record, error) {
	var (
		rec                    models.Record
		s                      scanned
		date, created, updated string
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &date, &rec.Title, &rec.Content,
		&s.insights, &s.duration, &s.moodTags, &s.transcript, &created, &updated); err != nil {
		return nil, err
	}
	if err := s.fill(&rec); err != nil {
		return nil, err
	}

	var err error
	if rec.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	// bookkeeping columns are informational only
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &rec, nil
}
