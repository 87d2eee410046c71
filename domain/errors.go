// domain/errors.go
package domain

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("database not available")

	// Adapter-level conditions, translated by the use cases.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrDocumentNotFound  = errors.New("document not found")
)

// Error pairs one of the sentinel kinds with the message shown to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewValidationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Message returns the client-facing message carried by err, or fallback
// when err is not a *Error.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
