package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/dbx"
)

const postgresColumns = `id, user_id, date, title, content, insights, duration, mood_tags, transcript, created_at, updated_at`

// PostgresRepository implements Repository over a remote PostgreSQL database
// opened with the pgx stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.Record) error {
	insights, err := encodeList(rec.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	moodTags, err := encodeList(rec.MoodTags)
	if err != nil {
		return fmt.Errorf("encode mood_tags: %w", err)
	}

	query := `
		INSERT INTO journal_entries (id, user_id, date, title, content, insights, duration, mood_tags, transcript)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8::jsonb, $9)`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Date.UTC(), rec.Title, rec.Content,
		insights, nullable(rec.Duration), moodTags, nullable(rec.Transcript))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]models.Record, error) {
	query := `SELECT ` + postgresColumns + ` FROM journal_entries WHERE user_id = $1 ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		rec, err := scanPostgres(rows)
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

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Record, error) {
	query := `SELECT ` + postgresColumns + ` FROM journal_entries WHERE id = $1 AND user_id = $2`
	rec, err := scanPostgres(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

func scanPostgres(row rowScanner) (*models.Record, error) {
	var (
		rec models.Record
		s   scanned
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Title, &rec.Content,
		&s.insights, &s.duration, &s.moodTags, &s.transcript, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.fill(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
