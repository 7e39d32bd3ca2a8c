package replication

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/manager"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// Participant holds a read/write replica of a tournament kept in sync with
// a Master over a Transport. Dispatch and EncodeDispatch only send to the
// master: the local store only changes once the master echoes
// the action back, so a participant can never apply something the master
// ultimately rejects.
type Participant struct {
	tx  Transport
	tr  *manager.Tournament
	log *zap.Logger
}

// Join performs the JOIN/SYNC handshake over tx and returns a Participant
// with its local store already caught up to the master's current state.
func Join(ctx context.Context, tx Transport, webName string, log *zap.Logger) (*Participant, error) {
	if log == nil {
		log = zap.NewNop()
	}
	joinPayload, err := encodePayload(JoinPayload{WebName: webName})
	if err != nil {
		return nil, err
	}
	if err := tx.Send(Message{Kind: KindJoin, Payload: joinPayload, SentAt: now()}); err != nil {
		return nil, err
	}

	reply, err := tx.Receive()
	if err != nil {
		return nil, err
	}
	if reply.Kind != KindSync {
		return nil, store.NewProtocolError("expected SYNC, got %s", reply.Kind)
	}
	var syncPayload SyncPayload
	if err := json.Unmarshal(reply.Payload, &syncPayload); err != nil {
		return nil, err
	}
	var snapshot store.Snapshot
	if err := json.Unmarshal(syncPayload.StoreSnapshot, &snapshot); err != nil {
		return nil, err
	}

	st := store.Restore(snapshot)
	tr := manager.New(st, log)
	return &Participant{tx: tx, tr: tr, log: log}, nil
}

// Tournament returns the participant's live local replica.
func (p *Participant) Tournament() *manager.Tournament { return p.tr }

// Dispatch sends a pre-built frame to the master and returns as soon as it
// is sent: the action is only applied to the local store once it comes
// back as an ACTION frame (see Run).
func (p *Participant) Dispatch(msg Message) error {
	return p.tx.Send(msg)
}

// EncodeDispatch encodes a and sends it to the master as an ACTION frame.
// It returns as soon as the frame is sent; the local store only changes
// once Run sees it echoed back (see Run).
func (p *Participant) EncodeDispatch(a actions.Action) error {
	payload, err := EncodeAction(a)
	if err != nil {
		return err
	}
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}
	return p.tx.Send(Message{Kind: KindAction, Payload: raw, SentAt: now()})
}

// Run processes frames from the master until the connection closes or ctx
// is done, applying every ACTION/UNDO/REDO to the local store in order.
func (p *Participant) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = p.tx.Close() })
	defer stop()
	for {
		msg, err := p.tx.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		switch msg.Kind {
		case KindAction:
			var payload ActionPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				p.log.Warn("malformed ACTION frame", zap.Error(err))
				continue
			}
			a, err := DecodeAction(payload)
			if err != nil {
				p.log.Warn("undecodable ACTION frame", zap.Error(err))
				continue
			}
			if err := p.tr.Dispatch(ctx, a); err != nil {
				p.log.Warn("local apply of replicated action failed", zap.Error(err))
			}
		case KindUndo:
			if err := p.tr.Undo(ctx); err != nil {
				p.log.Warn("local undo of replicated UNDO failed", zap.Error(err))
			}
		case KindRedo:
			if err := p.tr.Redo(ctx); err != nil {
				p.log.Warn("local redo of replicated REDO failed", zap.Error(err))
			}
		case KindQuit:
			return nil
		default:
			return fmt.Errorf("replication: unexpected frame kind %s", msg.Kind)
		}
	}
}

// Close tears down the participant's connection and local strand.
func (p *Participant) Close() error {
	p.tr.Close()
	return p.tx.Close()
}
