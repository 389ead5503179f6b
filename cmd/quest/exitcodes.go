package main

import (
	"errors"

	"github.com/matsen/questjournal/internal/config"
	"github.com/matsen/questjournal/internal/quest"
)

// Exit codes. Scripts branch on these, so values must not change.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (bad arguments, I/O failure)
	ExitNotFound    = 2 // No quest with the given id
	ExitValidation  = 3 // Invalid input (empty description, unknown enum value, bad date)
	ExitCorrupt     = 4 // Journal file exists but cannot be trusted
	ExitAlreadyDone = 5 // done on a quest that is already Discovered
	ExitConfigError = 6 // Config file or .env could not be used
)

// exitCodeFor maps an error returned by a command to its exit code.
// A corrupt journal wraps the record error that made it corrupt, so
// ErrCorruptStore is matched first.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, quest.ErrCorruptStore):
		return ExitCorrupt
	case errors.Is(err, quest.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, quest.ErrValidation):
		return ExitValidation
	case errors.Is(err, quest.ErrAlreadyCompleted):
		return ExitAlreadyDone
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	default:
		return ExitError
	}
}
