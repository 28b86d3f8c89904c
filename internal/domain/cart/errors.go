// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrCartNotLoaded is returned while the saved cart of a store could not
	// be read yet. Saving then would overwrite it.
	ErrCartNotLoaded = errors.New("saved cart has not been loaded")
	// ErrCheckoutInProgress is returned when the cart is already being submitted
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// ValidationError rejects a cart operation before any state changes
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthorizationError is returned when an unauthenticated actor touches a
// cart. ResumePath is where the actor should return after logging in.
type AuthorizationError struct {
	Message    string
	ResumePath string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// PersistenceError reports a failed load or save. When returned from a
// mutation, the in-memory change has already been applied and stays applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s cart: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
