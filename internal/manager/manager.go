// Package manager owns a live tournament, its undo/redo log, and the
// single-writer goroutine ("strand") that every mutation is funneled
// through: one authoritative store per open tournament, guarded by a
// single goroutine instead of a lock.
package manager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// job is a closure submitted to a tournament's strand.
type job struct {
	fn   func()
	done chan struct{}
}

// Tournament wraps a store.Tournament with its action log and the
// goroutine that serializes every read and mutation against it.
type Tournament struct {
	store *store.Tournament
	log   *zap.Logger

	undoStack []actions.Action
	redoStack []actions.Action

	jobs chan job
	quit chan struct{}
}

// New starts a tournament's strand goroutine over an existing store.
func New(st *store.Tournament, log *zap.Logger) *Tournament {
	if log == nil {
		log = zap.NewNop()
	}
	tr := &Tournament{
		store: st,
		log:   log.With(zap.String("tournament", st.ID.String())),
		jobs:  make(chan job, 64),
		quit:  make(chan struct{}),
	}
	go tr.run()
	return tr
}

func (tr *Tournament) run() {
	for {
		select {
		case j := <-tr.jobs:
			j.fn()
			close(j.done)
		case <-tr.quit:
			return
		}
	}
}

// Close stops the strand goroutine. Pending submissions after Close block
// forever; callers must not submit once they've called Close.
func (tr *Tournament) Close() {
	close(tr.quit)
}

// submit runs fn on the strand and blocks until it completes or ctx is
// done, the two suspension points the concurrency model allows: the
// network strand waiting on the tournament strand, or a caller giving up.
func (tr *Tournament) submit(ctx context.Context, fn func()) error {
	j := job{fn: fn, done: make(chan struct{})}
	select {
	case tr.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch applies a, pushes it to the undo stack, and clears the redo
// stack, all on the tournament's strand. A PreconditionLostError is logged
// but not treated as a dispatch failure: the action still lands on the log.
func (tr *Tournament) Dispatch(ctx context.Context, a actions.Action) error {
	var applyErr error
	err := tr.submit(ctx, func() {
		applyErr = a.Apply(tr.store)
		if applyErr != nil && !store.IsPreconditionLost(applyErr) {
			return
		}
		if store.IsPreconditionLost(applyErr) {
			tr.log.Info("action precondition lost, keeping on log",
				zap.String("action", a.Tag()), zap.Error(applyErr))
		}
		tr.undoStack = append(tr.undoStack, a)
		tr.redoStack = nil
	})
	if err != nil {
		return err
	}
	if applyErr != nil && !store.IsPreconditionLost(applyErr) {
		return fmt.Errorf("dispatch %s: %w", a.Tag(), applyErr)
	}
	return nil
}

// Undo reverses the most recently dispatched (and not yet undone) action.
func (tr *Tournament) Undo(ctx context.Context) error {
	var undoErr error
	err := tr.submit(ctx, func() {
		if len(tr.undoStack) == 0 {
			return
		}
		a := tr.undoStack[len(tr.undoStack)-1]
		undoErr = a.Undo(tr.store)
		if undoErr != nil {
			return
		}
		tr.undoStack = tr.undoStack[:len(tr.undoStack)-1]
		tr.redoStack = append(tr.redoStack, a)
	})
	if err != nil {
		return err
	}
	if undoErr != nil {
		return fmt.Errorf("undo: %w", undoErr)
	}
	return nil
}

// Redo re-applies the most recently undone action.
func (tr *Tournament) Redo(ctx context.Context) error {
	var applyErr error
	err := tr.submit(ctx, func() {
		if len(tr.redoStack) == 0 {
			return
		}
		a := tr.redoStack[len(tr.redoStack)-1]
		applyErr = a.Apply(tr.store)
		if applyErr != nil && !store.IsPreconditionLost(applyErr) {
			return
		}
		tr.redoStack = tr.redoStack[:len(tr.redoStack)-1]
		tr.undoStack = append(tr.undoStack, a)
	})
	if err != nil {
		return err
	}
	if applyErr != nil && !store.IsPreconditionLost(applyErr) {
		return fmt.Errorf("redo: %w", applyErr)
	}
	return nil
}

// View runs fn with read-only access to the store on the strand, so reads
// never race with a concurrent Dispatch/Undo/Redo.
func (tr *Tournament) View(ctx context.Context, fn func(*store.Tournament)) error {
	return tr.submit(ctx, func() { fn(tr.store) })
}

// LogDepth reports how many actions are currently undoable, reported in the
// replication SYNC handshake and logged by cmd/participant.
func (tr *Tournament) LogDepth() int { return len(tr.undoStack) }
