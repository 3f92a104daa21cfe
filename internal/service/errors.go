package service

import (
	"context"
	"errors"
	"fmt"

	"fitcoach/platform/internal/repository"
)

// --- Shared Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
	ErrConflict         = errors.New("resource already exists")
	// ErrUnavailable marks failures of a backing store or service; handlers answer 503.
	ErrUnavailable = errors.New("service temporarily unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// storeErr maps an unexpected repository error. Not found becomes notFound,
// cancellation passes through, everything else is an availability failure.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repository.ErrInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	case errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
