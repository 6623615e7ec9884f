package tabulation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := newNonMonotonicError(2, 1.5)
	assert.Equal(t, "NON_MONOTONIC: x must be strictly increasing (index=2, x=1.5)", err.Error())

	err = newShapeError("at least 2 samples required, got %d", 1)
	assert.Equal(t, "INVALID_SHAPE: at least 2 samples required, got 1", err.Error())
}

func TestPredicates_UnwrapWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading table: %w", newDivisionByZeroError(0, 1))

	assert.True(t, IsDivisionByZero(wrapped))
	assert.False(t, IsDomain(wrapped))
	assert.Equal(t, ErrCodeDivisionByZero, CodeOf(wrapped))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("boom")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.False(t, IsInvalidShape(nil))
}
