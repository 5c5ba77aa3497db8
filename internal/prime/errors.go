package prime

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a query outside the sieve bound [0, maxN].
	ErrOutOfRange = errors.New("prime: value outside sieve range")

	// ErrNotFound indicates no prime exists in the searched interval.
	ErrNotFound = errors.New("prime: no prime below sieve ceiling")

	// ErrSieveSize indicates an unusable sieve bound at construction.
	ErrSieveSize = errors.New("prime: sieve bound must be at least 2")
)

// RangeError carries the offending value and the sieve ceiling.
type RangeError struct {
	N   int
	Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("prime: %d outside sieve range [0, %d]", e.N, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
