// Package customerr holds the domain error taxonomy. Errors are raised at
// the point of detection and propagate unmodified to the transport layer,
// which maps them to status codes.
package customerr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials is deliberately uniform: callers cannot tell
	// an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken covers malformed, expired, unsigned and
	// wrong-shaped tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)

// NotFoundError means the addressed entity does not exist under the caller's
// ownership. It does not distinguish "not yours" from "does not exist".
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// ConflictError is a unique-constraint violation surfaced from storage.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// ValidationError is a malformed input payload or row.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
