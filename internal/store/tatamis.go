package store

import (
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/tatami"
)

// TatamiCount returns how many tatamis the tournament currently has.
func (t *Tournament) TatamiCount() int { return t.Tatamis.Size() }

// AppendTatami adds one tatami to the end of the list.
func (t *Tournament) AppendTatami(id ids.ID) tatami.Handle {
	t.notify.BeginAddTatamis()
	defer t.notify.EndAddTatamis()

	h := t.Tatamis.AppendTatami(id)
	t.notify.NoteTatami(id)
	return h
}

// ReinsertTatami restores a previously erased tatami at its remembered
// index, used by SetTatamiCount undo.
func (t *Tournament) ReinsertTatami(id ids.ID, index int) tatami.Handle {
	t.notify.BeginAddTatamis()
	defer t.notify.EndAddTatamis()

	h := t.Tatamis.GenerateLocation(id, index)
	t.notify.NoteTatami(id)
	return h
}

// EraseTatami removes a tatami. Every category that still has a block on it
// must have been relocated by the caller first.
func (t *Tournament) EraseTatami(id ids.ID) {
	t.notify.BeginEraseTatamis()
	defer t.notify.EndEraseTatamis()

	t.Tatamis.EraseTatami(id)
	t.notify.NoteTatami(id)
}

// SetTatamiLocation places (or relocates) a category's block of the given
// type at loc, updating the category's recorded location and the cached
// mat-status aggregation both at the old and new location.
func (t *Tournament) SetTatamiLocation(categoryID ids.ID, blockType MatchType, loc tatami.BlockLocation) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewValidationError("category %s does not exist", categoryID)
	}
	block := tatami.Block{Category: categoryID, Type: blockType}

	t.notify.BeginAddTatamis()
	defer t.notify.EndAddTatamis()

	var from *tatami.BlockLocation
	if old, ok := cat.Locations[blockType]; ok && old != nil {
		from = old
		t.notify.NoteTatami(old.Tatami.ID)
	}
	loc2 := loc
	if err := t.Tatamis.MoveBlock(block, from, &loc2); err != nil {
		return NewInvariantViolation("move block for category %s: %v", categoryID, err)
	}
	cat.Locations[blockType] = &loc2
	t.notify.NoteTatami(loc2.Tatami.ID)
	t.RecomputeTatamiBlock(loc2)
	if from != nil {
		t.RecomputeTatamiBlock(*from)
	}
	return nil
}

// ClearTatamiLocation removes a category's block of the given type from
// wherever it currently sits, e.g. because the category was erased or
// redrawn without that block type.
func (t *Tournament) ClearTatamiLocation(categoryID ids.ID, blockType MatchType) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewPreconditionLost("category %s does not exist", categoryID)
	}
	old, ok := cat.Locations[blockType]
	if !ok || old == nil {
		return nil
	}
	block := tatami.Block{Category: categoryID, Type: blockType}

	t.notify.BeginAddTatamis()
	defer t.notify.EndAddTatamis()

	if err := t.Tatamis.MoveBlock(block, old, nil); err != nil {
		return NewInvariantViolation("clear block for category %s: %v", categoryID, err)
	}
	delete(cat.Locations, blockType)
	t.notify.NoteTatami(old.Tatami.ID)
	t.RecomputeTatamiBlock(*old)
	return nil
}

// RecomputeTatamiBlock recomputes the cached status aggregation for the
// concurrent group holding loc, using each block's category/type counts as
// the per-match status source.
func (t *Tournament) RecomputeTatamiBlock(loc tatami.BlockLocation) {
	t.Tatamis.RecomputeBlock(loc, func(b tatami.Block) tatami.Status {
		cat, ok := t.Categories[b.Category]
		if !ok {
			return tatami.Status{}
		}
		c := cat.Counts[b.Type]
		if c == nil {
			return tatami.Status{}
		}
		return tatami.Status{NotStarted: c.NotStarted, Started: c.Started, Finished: c.Finished}
	})
}
