// Package codec maps journal entries to and from their persisted form,
// encrypting the sensitive fields on the way out and decrypting them on the
// way back in.
//
// Sensitive fields are Title, Content, Transcript and every Insights item,
// each sealed as its own envelope. ID, Date, Duration and MoodTags are
// stored as-is.
//
// Reads never fail. A field that does not open (not base64, too short, or
// failing authentication) is taken to be legacy plaintext and returned
// verbatim. This cannot tell a legacy value apart from a corrupted envelope
// written by this package; the stored text is shown either way.
package codec

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/cryptox"
	"github.com/dmitrijs2005/ember/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Cipher is the per-field cipher the codec relies on.
type Cipher interface {
	Encrypt(ctx context.Context, plaintext, userID string) (string, error)
	Decrypt(ctx context.Context, envelope, userID string) (string, error)
}

type Codec struct {
	cipher Cipher
	log    logging.Logger
}

func New(cipher Cipher, log logging.Logger) *Codec {
	return &Codec{cipher: cipher, log: log}
}

// ToPersisted encrypts every sensitive field of entry for userID. Fields are
// encrypted concurrently; if any of them fails no record is returned and the
// error wraps common.ErrEncryption.
func (c *Codec) ToPersisted(ctx context.Context, entry *models.JournalEntry, userID string) (*models.Record, error) {
	rec := &models.Record{
		ID:       entry.ID,
		UserID:   userID,
		Date:     entry.Date,
		Duration: entry.Duration,
		MoodTags: slices.Clone(entry.MoodTags),
		Insights: make([]string, len(entry.Insights)),
	}

	g, gctx := errgroup.WithContext(ctx)
	seal := func(field string, dst *string, plaintext string) {
		g.Go(func() error {
			env, err := c.cipher.Encrypt(gctx, plaintext, userID)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			*dst = env
			return nil
		})
	}

	seal("title", &rec.Title, entry.Title)
	seal("content", &rec.Content, entry.Content)
	if entry.Transcript != "" {
		seal("transcript", &rec.Transcript, entry.Transcript)
	}
	for i, insight := range entry.Insights {
		seal(fmt.Sprintf("insights[%d]", i), &rec.Insights[i], insight)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	return rec, nil
}

// ToDomain decrypts rec for userID. Each field is opened independently and
// concurrently; one field falling back to plaintext does not affect others.
func (c *Codec) ToDomain(ctx context.Context, rec *models.Record, userID string) *models.JournalEntry {
	entry := &models.JournalEntry{
		ID:       rec.ID,
		Date:     rec.Date,
		Duration: rec.Duration,
		MoodTags: slices.Clone(rec.MoodTags),
		Insights: make([]string, len(rec.Insights)),
	}
	if entry.MoodTags == nil {
		entry.MoodTags = []string{}
	}

	var g errgroup.Group
	open := func(field string, dst *string, stored string) {
		g.Go(func() error {
			*dst = c.open(ctx, rec.ID, field, stored, userID)
			return nil
		})
	}

	open("title", &entry.Title, rec.Title)
	open("content", &entry.Content, rec.Content)
	open("transcript", &entry.Transcript, rec.Transcript)
	for i, insight := range rec.Insights {
		open(fmt.Sprintf("insights[%d]", i), &entry.Insights[i], insight)
	}

	_ = g.Wait()
	return entry
}

// ToDomainAll decrypts a batch of records concurrently. The result keeps the
// order of recs.
func (c *Codec) ToDomainAll(ctx context.Context, recs []models.Record, userID string) []models.JournalEntry {
	out := make([]models.JournalEntry, len(recs))

	var g errgroup.Group
	for i := range recs {
		g.Go(func() error {
			out[i] = *c.ToDomain(ctx, &recs[i], userID)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Codec) open(ctx context.Context, entryID, field, stored, userID string) string {
	if stored == "" {
		return ""
	}

	plain, err := c.cipher.Decrypt(ctx, stored, userID)
	if err == nil {
		return plain
	}

	var de *cryptox.DecryptionError
	if errors.As(err, &de) {
		c.log.Debug(ctx, "field is not an envelope, using stored value",
			"entry_id", entryID, "field", field, "reason", de.Kind.String())
	} else {
		c.log.Warn(ctx, "field could not be decrypted, using stored value",
			"entry_id", entryID, "field", field, "error", err)
	}
	return stored
}
