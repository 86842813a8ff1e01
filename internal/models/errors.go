package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map these onto HTTP statuses: ErrNotFound -> 404,
// ErrConstraintViolation -> 400, InvalidTransitionError -> 409, everything
// else -> 500.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrDependencyFailure   = errors.New("dependency failure")
)

// InvalidTransitionError reports an illegal status change, carrying the
// current and attempted state for diagnostics.
type InvalidTransitionError struct {
	Axis string
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Axis, e.From, e.To)
}

// AsInvalidTransition unwraps err into an InvalidTransitionError if it is one.
func AsInvalidTransition(err error) (*InvalidTransitionError, bool) {
	var ite *InvalidTransitionError
	if errors.As(err, &ite) {
		return ite, true
	}
	return nil, false
}
