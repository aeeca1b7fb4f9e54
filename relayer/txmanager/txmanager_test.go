package txmanager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_HappyPathTransitionsPersist(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	task, err := m.New(100)
	require.NoError(t, err)
	require.Equal(t, StateReceived, task.State)

	require.NoError(t, m.Advance(task.UUID, StateProofComposed, nil))
	require.NoError(t, m.Advance(task.UUID, StateSubmitted, nil))
	require.NoError(t, m.Advance(task.UUID, StateConfirmed, nil))

	got, ok := m.Get(task.UUID)
	require.True(t, ok)
	require.Equal(t, StateConfirmed, got.State)

	reopened, err := NewManager(dir)
	require.NoError(t, err)
	got, ok = reopened.Get(task.UUID)
	require.True(t, ok)
	require.Equal(t, StateConfirmed, got.State)
}

func TestManager_RejectsSkippedTransition(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	task, err := m.New(1)
	require.NoError(t, err)

	err = m.Advance(task.UUID, StateSubmitted, nil)
	var invalid *ErrInvalidTransition
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, StateReceived, invalid.From)
	require.Equal(t, StateSubmitted, invalid.To)
}

func TestManager_FailedRecordsError(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	task, err := m.New(1)
	require.NoError(t, err)

	require.NoError(t, m.Advance(task.UUID, StateFailed, errors.New("proof generation timed out")))

	got, ok := m.Get(task.UUID)
	require.True(t, ok)
	require.Equal(t, StateFailed, got.State)
	require.Equal(t, "proof generation timed out", got.Error)
}

func TestManager_PendingExcludesTerminalStates(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	t1, err := m.New(1)
	require.NoError(t, err)
	t2, err := m.New(2)
	require.NoError(t, err)

	require.NoError(t, m.Advance(t1.UUID, StateProofComposed, nil))
	require.NoError(t, m.Advance(t2.UUID, StateProofComposed, nil))
	require.NoError(t, m.Advance(t2.UUID, StateSubmitted, nil))
	require.NoError(t, m.Advance(t2.UUID, StateConfirmed, nil))

	pending := m.Pending()
	require.Len(t, pending, 1)
	require.Equal(t, t1.UUID, pending[0].UUID)
}
