package actions

import (
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/store"
	"github.com/svendcsvendsen/judoassistant/internal/tatami"
)

// tatamiRemoval captures enough of one removed tatami to recreate it.
type tatamiRemoval struct {
	id    ids.ID
	index int
}

// SetTatamiCount grows or shrinks the tournament's tatami list to Count,
// appending fresh tatamis or removing trailing ones. IDs supplies the
// deterministic ids for any tatamis being added, generated by the
// dispatching client.
type SetTatamiCount struct {
	Count int
	IDs   []ids.ID

	applied bool
	removed []tatamiRemoval
	added   int
}

func (a *SetTatamiCount) Apply(t *store.Tournament) error {
	current := t.TatamiCount()
	if a.Count < 0 {
		return store.NewValidationError("tatami count cannot be negative")
	}
	a.removed = a.removed[:0]
	a.added = 0

	if a.Count > current {
		need := a.Count - current
		if len(a.IDs) < need {
			return store.NewValidationError("SetTatamiCount needs %d fresh ids, got %d", need, len(a.IDs))
		}
		for i := 0; i < need; i++ {
			t.AppendTatami(a.IDs[i])
			a.added++
		}
	} else if a.Count < current {
		for i := current - 1; i >= a.Count; i-- {
			h := t.Tatamis.HandleAt(i)
			a.removed = append(a.removed, tatamiRemoval{id: h.ID, index: i})
			t.EraseTatami(h.ID)
		}
	}
	a.applied = true
	return nil
}

func (a *SetTatamiCount) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	for i := 0; i < a.added; i++ {
		last := t.TatamiCount() - 1
		h := t.Tatamis.HandleAt(last)
		t.EraseTatami(h.ID)
	}
	for i := len(a.removed) - 1; i >= 0; i-- {
		r := a.removed[i]
		t.ReinsertTatami(r.id, r.index)
	}
	return nil
}

func (a *SetTatamiCount) FreshClone() Action {
	return &SetTatamiCount{Count: a.Count, IDs: append([]ids.ID(nil), a.IDs...)}
}
func (a *SetTatamiCount) Description() string { return "Set tatami count" }
func (a *SetTatamiCount) Tag() string         { return "SetTatamiCount" }

// SetTatamiLocation places or relocates a category's block of the given
// type onto a tatami.
type SetTatamiLocation struct {
	CategoryID ids.ID
	BlockType  store.MatchType
	Location   tatami.BlockLocation

	applied    bool
	lost       bool
	priorSet   bool
	priorValue tatami.BlockLocation
}

func (a *SetTatamiLocation) Apply(t *store.Tournament) error {
	cat := t.Category(a.CategoryID)
	if cat == nil {
		a.applied, a.lost = true, true
		return nil
	}
	if old, ok := cat.Locations[a.BlockType]; ok && old != nil {
		a.priorSet = true
		a.priorValue = *old
	}
	if err := t.SetTatamiLocation(a.CategoryID, a.BlockType, a.Location); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *SetTatamiLocation) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	var err error
	if a.priorSet {
		err = t.SetTatamiLocation(a.CategoryID, a.BlockType, a.priorValue)
	} else {
		err = t.ClearTatamiLocation(a.CategoryID, a.BlockType)
	}
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *SetTatamiLocation) FreshClone() Action {
	return &SetTatamiLocation{CategoryID: a.CategoryID, BlockType: a.BlockType, Location: a.Location}
}
func (a *SetTatamiLocation) Description() string { return "Set tatami location" }
func (a *SetTatamiLocation) Tag() string         { return "SetTatamiLocation" }
