// Package actions implements every mutation a client can dispatch against a
// tournament: each Action captures enough of its pre-image on Apply to
// undo exactly, and is logged so the manager (internal/manager) can offer
// undo/redo and so replication (internal/replication) can replay the same
// sequence on every participant.
package actions

import (
	"fmt"

	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// Action is one reversible mutation of a tournament. Apply and Undo are
// only ever called from the tournament's single-writer strand, so neither
// needs its own locking.
type Action interface {
	// Apply performs the mutation, capturing whatever pre-image its Undo
	// will need. A store.PreconditionLostError is not a failure: the
	// action stays on the log and both Apply and Undo become no-ops from
	// then on. Any other error means the action is rejected outright and
	// never logged.
	Apply(t *store.Tournament) error

	// Undo reverses a previously applied action using the captured
	// pre-image. Calling Undo without a prior successful Apply is a
	// programming error.
	Undo(t *store.Tournament) error

	// FreshClone returns a new Action with the same parameters but no
	// captured pre-image, suitable for re-dispatching (e.g. a client
	// retrying after PreconditionLostError further up the log).
	FreshClone() Action

	// Description is a short human-readable summary for undo/redo menus.
	Description() string

	// Tag identifies the action's concrete type for replication wire
	// encoding and logging.
	Tag() string
}

// notApplied returns a programming-error error; it marks Undo methods
// reached before a successful Apply.
func notApplied(tag string) error {
	return fmt.Errorf("actions: %s.Undo called before a successful Apply", tag)
}
