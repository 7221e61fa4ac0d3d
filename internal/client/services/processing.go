package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/draft"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/filex"
	"github.com/google/uuid"
)

// Duration labels recorded on generated entries.
const (
	AudioDuration      = "Session"
	TranscriptDuration = "10 mins"
)

// MaxAudioSize caps recordings sent inline to the draft generator.
const MaxAudioSize = 20 << 20

// ProcessingService turns a session recording or transcript into a saved
// journal entry.
type ProcessingService interface {
	ProcessAudio(ctx context.Context, path string) (*models.JournalEntry, error)
	ProcessTranscript(ctx context.Context, transcript string) (*models.JournalEntry, error)
}

type processingService struct {
	gen     draft.Generator
	journal JournalService
	now     func() time.Time
}

func NewProcessingService(gen draft.Generator, journal JournalService) ProcessingService {
	return &processingService{gen: gen, journal: journal, now: time.Now}
}

func (p *processingService) ProcessAudio(ctx context.Context, path string) (*models.JournalEntry, error) {
	audio, err := filex.ReadLimited(path, MaxAudioSize)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	d, err := p.gen.FromAudio(ctx, audio, audioMimeType(path, audio))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDraftGeneration, err)
	}
	return p.save(ctx, d, AudioDuration, d.Transcript)
}

func (p *processingService) ProcessTranscript(ctx context.Context, transcript string) (*models.JournalEntry, error) {
	d, err := p.gen.FromTranscript(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDraftGeneration, err)
	}
	return p.save(ctx, d, TranscriptDuration, transcript)
}

func (p *processingService) save(ctx context.Context, d *models.Draft, duration, transcript string) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{
		ID:         uuid.NewString(),
		Date:       p.now().UTC().Truncate(time.Millisecond),
		Title:      d.Title,
		Content:    d.Content,
		Insights:   d.Insights,
		MoodTags:   d.MoodTags,
		Duration:   duration,
		Transcript: transcript,
	}
	if err := p.journal.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// audioTypes covers extensions missing from Go's builtin MIME table.
var audioTypes = map[string]string{
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

func audioMimeType(path string, audio []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(audio)
}
