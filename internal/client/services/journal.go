package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/client/repositories/journal"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/logging"
	"github.com/google/uuid"
)

// JournalService is the persistence facade for journal entries. Every call
// acts on behalf of the user resolved by the IdentityProvider and fails with
// common.ErrNotAuthenticated when there is none.
type JournalService interface {
	// Save encrypts and inserts entry. An empty ID is filled with a new UUID
	// and a zero Date with the current time, both written back into entry.
	Save(ctx context.Context, entry *models.JournalEntry) error

	// ListAll returns the user's entries, newest first. A failed query is
	// logged and yields an empty list rather than an error.
	ListAll(ctx context.Context) ([]models.JournalEntry, error)

	// GetByID returns the entry, or nil with no error when it does not exist.
	GetByID(ctx context.Context, id string) (*models.JournalEntry, error)
}

// EntryCodec converts entries to and from their encrypted records.
type EntryCodec interface {
	ToPersisted(ctx context.Context, entry *models.JournalEntry, userID string) (*models.Record, error)
	ToDomain(ctx context.Context, rec *models.Record, userID string) *models.JournalEntry
	ToDomainAll(ctx context.Context, recs []models.Record, userID string) []models.JournalEntry
}

type journalService struct {
	identity IdentityProvider
	codec    EntryCodec
	repo     journal.Repository
	log      logging.Logger
	now      func() time.Time
}

func NewJournalService(identity IdentityProvider, codec EntryCodec, repo journal.Repository, log logging.Logger) JournalService {
	return &journalService{
		identity: identity,
		codec:    codec,
		repo:     repo,
		log:      log,
		now:      time.Now,
	}
}

func (s *journalService) userID() (string, error) {
	id, ok := s.identity.CurrentUserID()
	if !ok || id == "" {
		return "", common.ErrNotAuthenticated
	}
	return id, nil
}

func (s *journalService) Save(ctx context.Context, entry *models.JournalEntry) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date.IsZero() {
		entry.Date = s.now()
	}
	// stores keep UTC at millisecond precision
	entry.Date = entry.Date.UTC().Truncate(time.Millisecond)

	rec, err := s.codec.ToPersisted(ctx, entry, userID)
	if err != nil {
		s.log.Error(ctx, "entry encryption failed", "entry_id", entry.ID, "error", err)
		return err
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		s.log.Error(ctx, "entry insert failed", "entry_id", entry.ID, "error", err)
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	s.log.Info(ctx, "entry saved", "entry_id", entry.ID)
	return nil
}

func (s *journalService) ListAll(ctx context.Context) ([]models.JournalEntry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	recs, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "failed to list entries", "error", err)
		return []models.JournalEntry{}, nil
	}
	return s.codec.ToDomainAll(ctx, recs, userID), nil
}

func (s *journalService) GetByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, userID, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return s.codec.ToDomain(ctx, rec, userID), nil
}
