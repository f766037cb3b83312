package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PushAndListFIFO(t *testing.T) {
	t.Parallel()

	bus := NewBus(time.Minute)
	owner := uuid.New()

	bus.Success(owner, "first")
	bus.Warn(owner, "second")
	bus.Error(owner, "third")

	notes := bus.List(owner)
	require.Len(t, notes, 3)
	assert.Equal(t, "first", notes[0].Message)
	assert.Equal(t, SeveritySuccess, notes[0].Severity)
	assert.Equal(t, "second", notes[1].Message)
	assert.Equal(t, SeverityWarning, notes[1].Severity)
	assert.Equal(t, "third", notes[2].Message)
	assert.Equal(t, SeverityError, notes[2].Severity)
}

func TestBus_OwnersAreIsolated(t *testing.T) {
	t.Parallel()

	bus := NewBus(time.Minute)
	a, b := uuid.New(), uuid.New()

	bus.Success(a, "for a")

	assert.Len(t, bus.List(a), 1)
	assert.Empty(t, bus.List(b))
}

func TestBus_Dismiss(t *testing.T) {
	t.Parallel()

	bus := NewBus(time.Minute)
	owner := uuid.New()

	keep := bus.Success(owner, "keep")
	drop := bus.Warn(owner, "drop")

	assert.True(t, bus.Dismiss(owner, drop.ID))
	assert.False(t, bus.Dismiss(owner, drop.ID))

	notes := bus.List(owner)
	require.Len(t, notes, 1)
	assert.Equal(t, keep.ID, notes[0].ID)
}

func TestBus_EntriesExpire(t *testing.T) {
	t.Parallel()

	bus := NewBus(20 * time.Millisecond)
	owner := uuid.New()

	bus.Success(owner, "fleeting")
	require.Len(t, bus.List(owner), 1)

	assert.Eventually(t, func() bool {
		return len(bus.List(owner)) == 0
	}, time.Second, 5*time.Millisecond)
}
