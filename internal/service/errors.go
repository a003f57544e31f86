// Package service implements the ticketing core: the catalog, the inventory
// reservation engine, the booking lifecycle, the payment-channel registry
// and the admin credential check.  Every exported error wraps one of the
// sentinels below; callers branch with errors.Is.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

var (
	// ErrInvalidInput marks a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing match, ticket type, booking or channel.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientInventory is returned when a ticket type has fewer
	// available seats than requested.  Its message is safe to show users.
	ErrInsufficientInventory = errors.New("not enough seats available")
	// ErrInvalidStatus marks an unknown status or a change to a booking
	// that is already approved or rejected.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrConflict marks a uniqueness clash or a delete blocked by
	// dependent records.
	ErrConflict = errors.New("conflict")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storeErr translates storage sentinels for the entity named by what.
func storeErr(err error, what string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s %v already exists: %w", what, id, ErrConflict)
	case errors.Is(err, repository.ErrReferenced):
		return fmt.Errorf("%s %v is still referenced: %w", what, id, ErrConflict)
	}
	return fmt.Errorf("%s %v: %w", what, id, err)
}
