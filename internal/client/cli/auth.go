package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/ember/internal/common"
	"github.com/dmitrijs2005/ember/internal/shared"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) promptEmail(ctx context.Context) (string, error) {
	prompt := "Email"
	if last := a.auth.LastEmail(ctx); last != "" {
		prompt += " (Enter for " + last + ")"
		email, err := GetSimpleText(a.reader, prompt, a.out)
		if err == nil && email == "" {
			email = last
		}
		return email, err
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	confirm, err := GetPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(confirm)
	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	if _, err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}
	a.email = a.auth.LastEmail(ctx)
	fmt.Fprintln(a.out, success("Account created, you are logged in"))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.promptEmail(ctx)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if _, err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}
	a.email = a.auth.LastEmail(ctx)
	fmt.Fprintln(a.out, success("Login successful"))
	return nil
}

// Logout ends the session. With --purge the user's encryption key is deleted
// after a confirmation, which makes their existing entries unreadable.
func (a *App) Logout(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	purge := slices.Contains(args, "--purge")
	if purge || a.config.PurgeKeyOnLogout {
		fmt.Fprintln(a.out, hint("This deletes your encryption key. Existing entries will no longer be readable."))
		if !Confirm(a.reader, "Continue?", a.out) {
			fmt.Fprintln(a.out, "Logout cancelled")
			return nil
		}
	}

	if err := a.auth.Logout(ctx, purge); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, success("Logged out"))
	return nil
}
