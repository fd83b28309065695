package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("saveTrade", cause)

	assert.EqualError(t, err, "storage error [saveTrade]: disk full")
	assert.ErrorIs(t, err, cause)

	assert.True(t, IsStorage(err))
	assert.True(t, IsStorage(fmt.Errorf("outer: %w", err)))
	assert.False(t, IsStorage(cause))
	assert.False(t, IsStorage(ErrNotFound))
}

func TestValidationErrors_CollectAndExtract(t *testing.T) {
	var issues ValidationErrors
	issues.Add("symbol", "", "is required")
	issues.Add("side", "HOLD", "must be one of BUY, SELL")

	require.Len(t, issues, 2)
	assert.Equal(t, "validation failed: symbol: is required; side: must be one of BUY, SELL", issues.Error())

	got, ok := AsValidation(issues)
	require.True(t, ok)
	assert.Equal(t, issues, got)

	_, ok = AsValidation(ErrConflict)
	assert.False(t, ok)
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, Is(ErrNotFound, ErrConflict))
	assert.False(t, Is(ErrMalformedImport, ErrNotFound))
	assert.True(t, Is(fmt.Errorf("trade x: %w", ErrConflict), ErrConflict))
}
