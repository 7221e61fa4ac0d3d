package cryptox

import (
	"errors"
	"fmt"
)

// DecryptErrorKind classifies why an envelope could not be opened.
type DecryptErrorKind int

const (
	// KindInvalidEncoding means the input is not base64 text.
	KindInvalidEncoding DecryptErrorKind = iota + 1
	// KindTooShort means the decoded payload cannot hold an IV.
	KindTooShort
	// KindAuthenticationFailed means the GCM tag check failed: wrong key,
	// tampered bytes, or text that only looks like an envelope.
	KindAuthenticationFailed
)

func (k DecryptErrorKind) String() string {
	switch k {
	case KindInvalidEncoding:
		return "invalid encoding"
	case KindTooShort:
		return "too short"
	case KindAuthenticationFailed:
		return "authentication failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sentinels matching each DecryptErrorKind, for use with errors.Is.
var (
	ErrInvalidEncoding      = errors.New("envelope is not valid base64")
	ErrTooShort             = errors.New("envelope too short")
	ErrAuthenticationFailed = errors.New("envelope authentication failed")
)

// ErrInvalidKeyMaterial is returned when persisted key material cannot be parsed.
var ErrInvalidKeyMaterial = errors.New("invalid key material")

// DecryptionError is returned by DecryptField. Kind is always one of the
// declared kinds; Err carries the underlying cause when there is one.
type DecryptionError struct {
	Kind DecryptErrorKind
	Err  error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decrypt: %s: %v", e.Kind, e.Err)
	}
	return "decrypt: " + e.Kind.String()
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTooShort) and friends match by kind.
func (e *DecryptionError) Is(target error) bool {
	switch target {
	case ErrInvalidEncoding:
		return e.Kind == KindInvalidEncoding
	case ErrTooShort:
		return e.Kind == KindTooShort
	case ErrAuthenticationFailed:
		return e.Kind == KindAuthenticationFailed
	}
	return false
}
