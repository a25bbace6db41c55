package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when the gateway cannot be constructed.
	ErrConfig = errors.New("gateway config")

	// Contract errors: the caller omitted or mangled an input, nothing was sent.
	ErrMissingField  = errors.New("missing field")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidCard   = errors.New("invalid card")

	ErrSigning           = errors.New("signing request")
	ErrMalformedResponse = errors.New("malformed response")
)

func errorf(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}

// MissingFieldError names the field an operation could not be built without.
type MissingFieldError struct {
	Action Action
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Action, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

func missing(action Action, field string) error {
	return &MissingFieldError{Action: action, Field: field}
}

// IsContractError reports whether err was raised before any network call
// because of bad caller input.
func IsContractError(err error) bool {
	return errors.Is(err, ErrMissingField) || errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidCard)
}
