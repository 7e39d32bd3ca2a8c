package replication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/manager"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

func TestEncodeDecodeActionRoundTrip(t *testing.T) {
	pid := uuid.New()
	a := &actions.AddPlayer{ID: pid, Fields: store.PlayerFields{FirstName: "Ada", LastName: "Lovelace"}}

	payload, err := EncodeAction(a)
	require.NoError(t, err)
	require.Equal(t, "AddPlayer", payload.Tag)

	decoded, err := DecodeAction(payload)
	require.NoError(t, err)

	got, ok := decoded.(*actions.AddPlayer)
	require.True(t, ok, "decoded action has wrong concrete type")
	require.Equal(t, pid, got.ID)
	require.Equal(t, "Ada", got.Fields.FirstName)
}

func TestDecodeActionUnknownTag(t *testing.T) {
	_, err := DecodeAction(ActionPayload{Tag: "NotARealAction"})
	require.Error(t, err)
}

// chanTransport is an in-process Transport pairing for tests, standing in
// for the websocket transport without a real network round trip.
type chanTransport struct {
	send chan Message
	recv chan Message
	stop chan struct{}
}

func newPipe() (Transport, Transport) {
	ab := make(chan Message, 16)
	ba := make(chan Message, 16)
	return &chanTransport{send: ab, recv: ba, stop: make(chan struct{})},
		&chanTransport{send: ba, recv: ab, stop: make(chan struct{})}
}

func (c *chanTransport) Send(m Message) error {
	select {
	case c.send <- m:
		return nil
	case <-c.stop:
		return ErrClosed
	}
}

func (c *chanTransport) Receive() (Message, error) {
	select {
	case m := <-c.recv:
		return m, nil
	case <-c.stop:
		return Message{}, ErrClosed
	}
}

func (c *chanTransport) Close() error {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	return nil
}

func TestMasterParticipantHandshakeAndDispatch(t *testing.T) {
	id := uuid.New()
	st := store.NewTournament(id, "Test Open", "salt")
	tr := manager.New(st, nil)
	defer tr.Close()

	masterSide, participantSide := newPipe()
	defer masterSide.Close()
	master := NewMaster(id, tr, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	serveDone := make(chan error, 1)
	go func() { serveDone <- master.Serve(ctx, masterSide) }()

	p, err := Join(ctx, participantSide, "viewer", nil)
	require.NoError(t, err)
	defer p.Close()

	runDone := make(chan error, 1)
	go func() { runDone <- p.Run(ctx) }()

	pid := uuid.New()
	add := &actions.AddPlayer{ID: pid, Fields: store.PlayerFields{FirstName: "Ada"}}
	require.NoError(t, p.EncodeDispatch(add))

	require.Eventually(t, func() bool {
		var found bool
		_ = tr.View(ctx, func(s *store.Tournament) { found = s.Player(pid) != nil })
		return found
	}, time.Second, 10*time.Millisecond, "master never applied the dispatched action")

	require.Eventually(t, func() bool {
		var found bool
		_ = p.Tournament().View(ctx, func(s *store.Tournament) { found = s.Player(pid) != nil })
		return found
	}, time.Second, 10*time.Millisecond, "participant never saw the action echoed back")
}
