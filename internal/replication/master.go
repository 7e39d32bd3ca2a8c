package replication

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/manager"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// Master serves one tournament's live state to any number of connected
// participants: every dispatched action is applied locally first, then
// fanned out to every connection, including the one it came from, so
// replicas never diverge.
type Master struct {
	id      ids.ID
	tr      *manager.Tournament
	log     *zap.Logger

	mu           sync.Mutex
	participants map[Transport]struct{}
}

// NewMaster wraps an already-open manager.Tournament for replication.
func NewMaster(id ids.ID, tr *manager.Tournament, log *zap.Logger) *Master {
	if log == nil {
		log = zap.NewNop()
	}
	return &Master{id: id, tr: tr, log: log, participants: make(map[Transport]struct{})}
}

// Serve handles one participant connection until it disconnects or sends
// QUIT: JOIN/SYNC handshake, then a read loop applying and re-broadcasting
// every ACTION/UNDO/REDO frame it receives.
func (m *Master) Serve(ctx context.Context, tx Transport) error {
	first, err := tx.Receive()
	if err != nil {
		return err
	}
	if first.Kind != KindJoin {
		return tx.Send(Message{Kind: KindQuit, TournamentID: m.id})
	}

	var snapshot store.Snapshot
	var depth int
	if err := m.tr.View(ctx, func(t *store.Tournament) {
		snapshot = t.Snapshot()
		depth = m.tr.LogDepth()
	}); err != nil {
		return err
	}
	rawSnap, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	syncPayload, err := encodePayload(SyncPayload{StoreSnapshot: rawSnap, LogDepth: depth})
	if err != nil {
		return err
	}
	if err := tx.Send(Message{Kind: KindSync, TournamentID: m.id, Payload: syncPayload, SentAt: now()}); err != nil {
		return err
	}

	m.addParticipant(tx)
	defer m.removeParticipant(tx)

	for {
		msg, err := tx.Receive()
		if err != nil {
			return err
		}
		switch msg.Kind {
		case KindQuit:
			return nil
		case KindAction:
			if err := m.handleAction(ctx, msg, tx); err != nil {
				m.log.Warn("action from participant rejected", zap.Error(err))
			}
		case KindUndo:
			if err := m.tr.Undo(ctx); err != nil {
				m.log.Warn("undo failed", zap.Error(err))
				continue
			}
			m.broadcast(ctx, msg, tx)
		case KindRedo:
			if err := m.tr.Redo(ctx); err != nil {
				m.log.Warn("redo failed", zap.Error(err))
				continue
			}
			m.broadcast(ctx, msg, tx)
		default:
			return store.NewProtocolError("unexpected message kind %s", msg.Kind)
		}
	}
}

func (m *Master) handleAction(ctx context.Context, msg Message, origin Transport) error {
	var payload ActionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return err
	}
	a, err := DecodeAction(payload)
	if err != nil {
		return err
	}
	if err := m.tr.Dispatch(ctx, a); err != nil {
		return err
	}
	// Every participant, including the one that dispatched it, applies the
	// action only once it comes back over the wire: the master is the one
	// serializer of truth, so a client never applies its own optimistic
	// copy ahead of the broadcast order.
	m.broadcast(ctx, msg, origin)
	return nil
}

// broadcast fans out msg to every participant, including origin, for the
// reason given in handleAction. Concurrent sends tolerate individual send
// failures (a slow or dead peer doesn't block the others); errgroup just
// gives the fan-out a clean join point.
func (m *Master) broadcast(ctx context.Context, msg Message, origin Transport) {
	m.mu.Lock()
	targets := make([]Transport, 0, len(m.participants))
	for tx := range m.participants {
		targets = append(targets, tx)
	}
	m.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, tx := range targets {
		tx := tx
		g.Go(func() error {
			if err := tx.Send(msg); err != nil {
				m.log.Warn("broadcast send failed", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Master) addParticipant(tx Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants[tx] = struct{}{}
}

func (m *Master) removeParticipant(tx Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.participants, tx)
}
