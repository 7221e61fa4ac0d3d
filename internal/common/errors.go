// Package common defines sentinel errors shared across Ember components.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Identity errors.
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrorUnauthorized   = errors.New("unauthorized")

	// Journal write path. A failed encryption means nothing was persisted.
	ErrEncryption  = errors.New("failed to encrypt entry")
	ErrPersistence = errors.New("failed to save entry")

	// Draft generation (external AI service).
	ErrDraftGeneration = errors.New("failed to generate journal draft")
)
