package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeNotEligible, "organ is not available")
		assert.True(t, HasCode(err, CodeNotEligible))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := New(CodeDuplicateEntry, "active entry exists")
		err := fmt.Errorf("add to waiting list: %w", inner)
		assert.True(t, HasCode(err, CodeDuplicateEntry))
	})

	t.Run("outermost code wins for nested coded errors", func(t *testing.T) {
		inner := New(CodeNotFound, "recipient missing")
		outer := Wrap(inner, CodeUnavailable, "registry lookup failed")
		assert.True(t, HasCode(outer, CodeUnavailable))
		assert.False(t, HasCode(outer, CodeNotFound))
	})

	t.Run("uncoded error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "oracle gateway unreachable")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "unavailable")
}

func TestErrorsIsByCode(t *testing.T) {
	err := New(CodeAlreadyPending, "verification request in flight")
	assert.True(t, errors.Is(err, New(CodeAlreadyPending, "")))
	assert.False(t, errors.Is(err, New(CodeNoCandidate, "")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidState, CodeOf(New(CodeInvalidState, "bad transition")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("untyped")))
}
