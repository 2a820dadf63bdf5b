package usecases

import (
	"errors"
	"fmt"

	"financehub/repositories"
)

// Error kinds returned by the use cases. Handlers map them to HTTP statuses.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrConflict           = errors.New("already exists")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyReacted     = errors.New("already reacted")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// fromRepo maps repository sentinels onto use case kinds, keeping what
// was being looked at in the message.
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case errors.Is(err, repositories.ErrAlreadyReacted):
		return fmt.Errorf("%w: %s", ErrAlreadyReacted, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}
