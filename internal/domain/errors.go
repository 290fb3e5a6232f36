package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the application.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports malformed input: a self-conversation request,
// a bad pagination parameter, or a malformed cursor.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PartialWriteError reports that one of the two index fan-out writes
// failed after the message itself was durably appended. UserID names the
// participant whose index row is stale, so reconciliation tooling can
// replay the upsert.
type PartialWriteError struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	UserID         int64
	Err            error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("conversation index write failed for user %d in conversation %s: %v",
		e.UserID, e.ConversationID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
