package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errFirst  = errors.New("first")
	errSecond = errors.New("second")
)

func TestCollection_Empty(t *testing.T) {
	t.Parallel()

	var col Collection

	assert.False(t, col.HasError())
	assert.NoError(t, col.GetError())
}

func TestCollection_Single(t *testing.T) {
	t.Parallel()

	var col Collection

	col.Add(errFirst)
	col.Add(nil)

	require.True(t, col.HasError())
	assert.Equal(t, errFirst, col.GetError())
}

func TestCollection_Multiple(t *testing.T) {
	t.Parallel()

	var col Collection

	col.Add(errFirst)
	col.Add(errSecond)

	err := col.GetError()
	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
}

func TestCollection_Clear(t *testing.T) {
	t.Parallel()

	var col Collection

	col.Add(errFirst)
	col.Clear()

	assert.False(t, col.HasError())
	assert.NoError(t, col.GetError())
}

func TestFromPanic(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FromPanic(nil, nil))

	err := FromPanic(errFirst, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanicRecovery)
	assert.ErrorIs(t, err, errFirst)

	err = FromPanic("boom", []byte("stack"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanicRecovery)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "stack")
}
