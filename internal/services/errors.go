package services

import (
	"errors"

	"github.com/diewo77/go-profiles/internal/observability"
	"github.com/diewo77/go-profiles/validation"
)

// Sentinel errors returned by the profile actions.
var (
	ErrNotFound      = errors.New("profile not found")
	ErrDuplicateCode = errors.New("profile code already exists")
	ErrUserNotFound  = errors.New("user not found")
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, validation.ErrInvalid):
		return observability.OutcomeInvalid
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, ErrDuplicateCode):
		return observability.OutcomeDuplicate
	default:
		return observability.OutcomeError
	}
}
