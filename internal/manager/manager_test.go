package manager

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/store"

	_ "github.com/svendcsvendsen/judoassistant/internal/ruleset/judo"
)

func TestDispatchUndoRedo(t *testing.T) {
	st := store.NewTournament(uuid.New(), "Test Open", "salt")
	tr := New(st, nil)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pid := uuid.New()
	add := &actions.AddPlayer{ID: pid, Fields: store.PlayerFields{FirstName: "Ada"}}
	require.NoError(t, tr.Dispatch(ctx, add))

	var found bool
	require.NoError(t, tr.View(ctx, func(s *store.Tournament) { found = s.Player(pid) != nil }))
	require.True(t, found, "player missing after dispatch")

	require.NoError(t, tr.Undo(ctx))
	require.NoError(t, tr.View(ctx, func(s *store.Tournament) { found = s.Player(pid) != nil }))
	require.False(t, found, "player still present after undo")

	require.NoError(t, tr.Redo(ctx))
	require.NoError(t, tr.View(ctx, func(s *store.Tournament) { found = s.Player(pid) != nil }))
	require.True(t, found, "player missing after redo")
}

func TestManagerCoalescesConcurrentOpens(t *testing.T) {
	id := uuid.New()
	var loads atomic.Int32
	loader := func(ctx context.Context, reqID uuid.UUID) (*store.Tournament, error) {
		loads.Add(1)
		return store.NewTournament(reqID, "Test Open", "salt"), nil
	}
	m := NewManager(loader, nil)

	ctx := context.Background()
	done := make(chan struct{}, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := m.Open(ctx, id)
			if err != nil {
				t.Error(err)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if loads.Load() != 1 {
		t.Fatalf("loader called %d times, want 1", loads.Load())
	}
}
