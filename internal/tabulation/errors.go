package tabulation

import (
	"errors"
	"fmt"
)

// Error reports an invalid input or an undefined operation.
//
// Errors are never retried internally: every failure stems from the shape
// or ordering of the caller's data.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the offending sample index, or -1 when not applicable.
	Index int

	// X is the offending abscissa, when applicable.
	X float64
}

// ErrorCode categorizes tabulation errors.
type ErrorCode string

const (
	// ErrCodeInvalidShape indicates mismatched lengths, fewer than two
	// samples, or combined domains that do not overlap.
	ErrCodeInvalidShape ErrorCode = "INVALID_SHAPE"

	// ErrCodeNonMonotonic indicates an x grid that is not strictly increasing.
	ErrCodeNonMonotonic ErrorCode = "NON_MONOTONIC"

	// ErrCodeDomain indicates a strict-mode query outside the domain.
	ErrCodeDomain ErrorCode = "DOMAIN"

	// ErrCodeDivisionByZero indicates an exact-zero denominator.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (index=%d, x=%g)", e.Code, e.Message, e.Index, e.X)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a
// tabulation error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsInvalidShape returns true if err is an ErrCodeInvalidShape error.
func IsInvalidShape(err error) bool {
	return CodeOf(err) == ErrCodeInvalidShape
}

// IsNonMonotonic returns true if err is an ErrCodeNonMonotonic error.
func IsNonMonotonic(err error) bool {
	return CodeOf(err) == ErrCodeNonMonotonic
}

// IsDomain returns true if err is an ErrCodeDomain error.
func IsDomain(err error) bool {
	return CodeOf(err) == ErrCodeDomain
}

// IsDivisionByZero returns true if err is an ErrCodeDivisionByZero error.
func IsDivisionByZero(err error) bool {
	return CodeOf(err) == ErrCodeDivisionByZero
}

func newShapeError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidShape,
		Message: fmt.Sprintf(format, args...),
		Index:   -1,
	}
}

func newNonMonotonicError(i int, x float64) *Error {
	return &Error{
		Code:    ErrCodeNonMonotonic,
		Message: "x must be strictly increasing",
		Index:   i,
		X:       x,
	}
}

func newDomainError(v, lo, hi float64) *Error {
	return &Error{
		Code:    ErrCodeDomain,
		Message: fmt.Sprintf("%g outside domain [%g, %g]", v, lo, hi),
		Index:   -1,
		X:       v,
	}
}

func newDivisionByZeroError(i int, x float64) *Error {
	return &Error{
		Code:    ErrCodeDivisionByZero,
		Message: "denominator is zero",
		Index:   i,
		X:       x,
	}
}
