package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ember/internal/client/draft"
	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/common"
)

// New journals an audio recording given as the first argument or prompted for.
func (a *App) New(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	path := strings.Join(args, " ")
	if path == "" {
		var err error
		if path, err = GetSimpleText(a.reader, "Path to the session recording", a.out); err != nil {
			return err
		}
	}
	if path == "" {
		return errors.New("no file given")
	}

	return a.process(ctx, "Listening to your session...", func(ctx context.Context) (*models.JournalEntry, error) {
		return a.processing.ProcessAudio(ctx, path)
	})
}

// Text journals a transcript pasted into the terminal.
func (a *App) Text(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	transcript, err := GetMultiline(a.reader, "Paste the session transcript", a.out)
	if err != nil {
		return err
	}
	if transcript == "" {
		return errors.New("empty transcript")
	}
	return a.processTranscript(ctx, transcript)
}

// Demo journals the built-in sample session.
func (a *App) Demo(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	return a.processTranscript(ctx, draft.SampleTranscript)
}

func (a *App) processTranscript(ctx context.Context, transcript string) error {
	return a.process(ctx, "Reflecting on your session...", func(ctx context.Context) (*models.JournalEntry, error) {
		return a.processing.ProcessTranscript(ctx, transcript)
	})
}

func (a *App) process(ctx context.Context, msg string, fn func(context.Context) (*models.JournalEntry, error)) error {
	fmt.Fprintln(a.out, msg)

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	entry, err := fn(ctx)
	if err != nil {
		a.log.Error(ctx, "processing failed", "error", err)
		return err
	}

	fmt.Fprintln(a.out, success("Saved entry "+entry.ID))
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, renderEntry(entry))
	return nil
}

// List prints one summary line per entry, newest first.
func (a *App) List(ctx context.Context) error {
	entries, err := a.journal.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet.")
		fmt.Fprintln(a.out, hint("Try 'demo', 'text' or 'new <file>'"))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e.Summary())
	}
	return nil
}

// Search lists the entries whose title or content contains the term, or
// whose ISO date does. Entries are filtered after decryption.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	term := strings.Join(args, " ")
	if term == "" {
		var err error
		if term, err = GetSimpleText(a.reader, "Search", a.out); err != nil {
			return err
		}
	}

	entries, err := a.journal.ListAll(ctx)
	if err != nil {
		return err
	}
	found := models.Filter(entries, term)
	if len(found) == 0 {
		fmt.Fprintf(a.out, "No entries match %q.\n", term)
		return nil
	}
	for _, e := range found {
		fmt.Fprintln(a.out, e.Summary())
	}
	return nil
}

// Show prints the entry whose id is given or prompted for.
func (a *App) Show(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		if id, err = GetSimpleText(a.reader, "Entry ID", a.out); err != nil {
			return err
		}
	}

	entry, err := a.journal.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("entry %s not found", id)
	}
	fmt.Fprint(a.out, renderEntry(entry))
	return nil
}
