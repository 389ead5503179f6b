package quest

import (
	"errors"
	"fmt"
)

// Error classes. Callers branch on these with errors.Is; concrete errors
// carry the details.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("quest not found")
	ErrAlreadyCompleted = errors.New("quest already discovered")
	ErrCorruptStore     = errors.New("quest journal is corrupt")
)

// ValidationError describes rejected input for a single field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError is returned when no quest has the requested id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quest %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyCompletedError is returned by Done for a quest that is already
// Discovered. Quest holds the unchanged record.
type AlreadyCompletedError struct {
	Quest Quest
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("quest %d is already discovered", e.Quest.ID)
}

func (e *AlreadyCompletedError) Is(target error) bool {
	return target == ErrAlreadyCompleted
}

// CorruptStoreError reports a journal file that exists but cannot be
// trusted. The file is never repaired automatically.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt quest journal %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

func (e *CorruptStoreError) Is(target error) bool {
	return target == ErrCorruptStore
}
