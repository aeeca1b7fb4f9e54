package historicalproxy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndpointList_EndpointForExactAndNearestBelow(t *testing.T) {
	l := NewEndpointList()
	require.NoError(t, l.Push(100, "actor-a"))
	require.NoError(t, l.Push(200, "actor-b"))

	got, err := l.EndpointFor(100)
	require.NoError(t, err)
	require.Equal(t, "actor-a", got)

	got, err = l.EndpointFor(150)
	require.NoError(t, err)
	require.Equal(t, "actor-a", got)

	got, err = l.EndpointFor(250)
	require.NoError(t, err)
	require.Equal(t, "actor-b", got)
}

func TestEndpointList_RejectsSlotBeforeAnyEndpoint(t *testing.T) {
	l := NewEndpointList()
	require.NoError(t, l.Push(100, "actor-a"))

	_, err := l.EndpointFor(50)
	var notFound *ErrNoEndpointForSlot
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, uint64(50), notFound.Slot)
}

func TestEndpointList_RejectsOutOfOrderPush(t *testing.T) {
	l := NewEndpointList()
	require.NoError(t, l.Push(100, "actor-a"))
	require.Error(t, l.Push(100, "actor-b"))
	require.Error(t, l.Push(50, "actor-b"))
}

type stubSender struct {
	lastActorID string
	reply       []byte
}

func (s *stubSender) SendForReply(ctx context.Context, actorID string, payload []byte) ([]byte, error) {
	s.lastActorID = actorID
	return s.reply, nil
}

func TestProxy_ForwardRoutesToEndpoint(t *testing.T) {
	l := NewEndpointList()
	require.NoError(t, l.Push(100, "actor-a"))
	require.NoError(t, l.Push(200, "actor-b"))

	sender := &stubSender{reply: []byte("ok")}
	p := NewProxy(l, sender)

	reply, err := p.Forward(context.Background(), 150, []byte("payload"))
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), reply)
	require.Equal(t, "actor-a", sender.lastActorID)
}
