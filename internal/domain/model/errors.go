package model

import "errors"

// Domain error taxonomy. Callers wrap these with fmt.Errorf("...: %w") and
// inspect them with errors.Is.
var (
	// ErrValidation indicates user or programmer input that can never succeed as given.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidArgument indicates an argument outside the accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound indicates an unknown identifier.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound indicates a missing or expired builder session.
	ErrSessionNotFound = errors.New("builder session not found")
	// ErrCurrencyMismatch is returned when summing money in different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrConsistency indicates data that cannot be aggregated, such as a missing weight.
	ErrConsistency = errors.New("consistency error")
)
