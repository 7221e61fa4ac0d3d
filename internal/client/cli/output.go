package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/dmitrijs2005/ember/internal/client/services"
	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/fatih/color"
)

func success(msg string) string {
	return color.GreenString("✓") + " " + msg
}

func hint(msg string) string {
	return color.CyanString("→") + " " + msg
}

func failure(err error) string {
	return color.RedString("✗") + " " + userMessage(err)
}

// userMessage turns known errors into the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, common.ErrorUnauthorized):
		return "Invalid email or password"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "An account with this email already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Email and password are required"
	case errors.Is(err, common.ErrDraftGeneration):
		return "Failed to process the session. Please try again."
	case errors.Is(err, common.ErrEncryption), errors.Is(err, common.ErrPersistence):
		return "Failed to save the entry"
	}
	return err.Error()
}

// renderEntry is the full view printed by "show".
func renderEntry(e *models.JournalEntry) string {
	var b strings.Builder
	bold := color.New(color.Bold)

	b.WriteString(bold.Sprint(e.Title) + "\n")
	meta := e.Date.Local().Format("Monday, January 2, 2006 15:04")
	if e.Duration != "" {
		meta += " · " + e.Duration
	}
	b.WriteString(color.HiBlackString(meta) + "\n")
	if len(e.MoodTags) > 0 {
		b.WriteString(color.MagentaString(strings.Join(e.MoodTags, "  ")) + "\n")
	}

	b.WriteString("\n" + e.Content + "\n")

	if len(e.Insights) > 0 {
		b.WriteString("\n" + bold.Sprint("Insights") + "\n")
		for _, in := range e.Insights {
			fmt.Fprintf(&b, "  • %s\n", in)
		}
	}
	if e.Transcript != "" {
		b.WriteString("\n" + bold.Sprint("Transcript") + "\n" + e.Transcript + "\n")
	}
	return b.String()
}
