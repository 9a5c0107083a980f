package simcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(0)
	require.Equal(t, DefaultCapacity, r.Capacity())

	_, err := r.Get(1)
	assert.ErrorIs(t, err, ErrNoCard)

	for _, instance := range []int{-1, DefaultCapacity} {
		_, err := r.Create(5554, instance)
		assert.ErrorIs(t, err, ErrInstanceOutOfRange)
		_, err = r.Get(instance)
		assert.ErrorIs(t, err, ErrInstanceOutOfRange)
	}

	card, err := r.Create(5556, 1)
	require.NoError(t, err)
	assert.Equal(t, 5556, card.Port())
	assert.Equal(t, 1, card.Instance())

	got, err := r.Get(1)
	require.NoError(t, err)
	assert.Same(t, card, got)

	card.SetStatus(StatusPIN)
	fresh, err := r.Create(5556, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, fresh.Status(), "Create reinitializes the slot")

	r.Destroy(fresh)
	got, err = r.Get(1)
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestRegistry_CreateRejectsDuplicateFiles(t *testing.T) {
	r := NewRegistry(2)
	f := mustFile(t)(NewDedicated(0x6FAD, 0, []byte{0}))

	_, err := r.Create(5554, 0, WithFiles(f, f))
	assert.ErrorIs(t, err, ErrDuplicateFile)
	_, err = r.Get(0)
	assert.ErrorIs(t, err, ErrNoCard)
}
