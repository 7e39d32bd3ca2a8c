package actions

import (
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// AddPlayer creates a new player with the given id and fields. The id must
// be generated by the dispatching client via internal/ids so it replays
// identically on every replica.
type AddPlayer struct {
	ID     ids.ID
	Fields store.PlayerFields

	applied bool
}

func (a *AddPlayer) Apply(t *store.Tournament) error {
	if err := t.AddPlayer(a.ID, a.Fields); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *AddPlayer) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	err := t.ErasePlayer(a.ID)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *AddPlayer) FreshClone() Action     { return &AddPlayer{ID: a.ID, Fields: a.Fields} }
func (a *AddPlayer) Description() string    { return "Add player" }
func (a *AddPlayer) Tag() string            { return "AddPlayer" }

// ErasePlayer removes a player, capturing its fields and category/match
// membership so Undo can fully restore it.
type ErasePlayer struct {
	ID ids.ID

	applied    bool
	lost       bool
	fields     store.PlayerFields
	categories []ids.ID
}

func (a *ErasePlayer) Apply(t *store.Tournament) error {
	p := t.Player(a.ID)
	if p == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	a.fields = p.Fields
	a.categories = a.categories[:0]
	for catID := range p.Categories {
		a.categories = append(a.categories, catID)
	}

	if err := t.ErasePlayer(a.ID); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *ErasePlayer) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	if err := t.AddPlayer(a.ID, a.fields); err != nil {
		return err
	}
	for _, catID := range a.categories {
		if t.Category(catID) == nil {
			continue
		}
		if err := t.AddPlayerToCategory(a.ID, catID); err != nil {
			return err
		}
	}
	return nil
}

func (a *ErasePlayer) FreshClone() Action  { return &ErasePlayer{ID: a.ID} }
func (a *ErasePlayer) Description() string { return "Erase player" }
func (a *ErasePlayer) Tag() string         { return "ErasePlayer" }

// ChangePlayerFields overwrites a player's descriptive fields, capturing the
// prior fields for Undo.
type ChangePlayerFields struct {
	ID     ids.ID
	Fields store.PlayerFields

	applied bool
	lost    bool
	prior   store.PlayerFields
}

func (a *ChangePlayerFields) Apply(t *store.Tournament) error {
	p := t.Player(a.ID)
	if p == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	a.prior = p.Fields
	if err := t.ChangePlayerFields(a.ID, a.Fields); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *ChangePlayerFields) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	err := t.ChangePlayerFields(a.ID, a.prior)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *ChangePlayerFields) FreshClone() Action {
	return &ChangePlayerFields{ID: a.ID, Fields: a.Fields}
}
func (a *ChangePlayerFields) Description() string { return "Change player" }
func (a *ChangePlayerFields) Tag() string         { return "ChangePlayerFields" }

// AddPlayersToCategory links a batch of players to a category.
type AddPlayersToCategory struct {
	PlayerIDs  []ids.ID
	CategoryID ids.ID

	applied []ids.ID // the subset actually linked, for exact undo
}

func (a *AddPlayersToCategory) Apply(t *store.Tournament) error {
	a.applied = a.applied[:0]
	for _, pid := range a.PlayerIDs {
		if t.Category(a.CategoryID).HasPlayer(pid) {
			continue
		}
		if err := t.AddPlayerToCategory(pid, a.CategoryID); err != nil {
			return err
		}
		a.applied = append(a.applied, pid)
	}
	return nil
}

func (a *AddPlayersToCategory) Undo(t *store.Tournament) error {
	for _, pid := range a.applied {
		err := t.ErasePlayerFromCategory(pid, a.CategoryID)
		if err != nil && !store.IsPreconditionLost(err) {
			return err
		}
	}
	return nil
}

func (a *AddPlayersToCategory) FreshClone() Action {
	return &AddPlayersToCategory{PlayerIDs: append([]ids.ID(nil), a.PlayerIDs...), CategoryID: a.CategoryID}
}
func (a *AddPlayersToCategory) Description() string { return "Add players to category" }
func (a *AddPlayersToCategory) Tag() string         { return "AddPlayersToCategory" }

// ErasePlayersFromCategory unlinks a batch of players from a category.
type ErasePlayersFromCategory struct {
	PlayerIDs  []ids.ID
	CategoryID ids.ID

	applied []ids.ID
}

func (a *ErasePlayersFromCategory) Apply(t *store.Tournament) error {
	a.applied = a.applied[:0]
	for _, pid := range a.PlayerIDs {
		cat := t.Category(a.CategoryID)
		if cat == nil || !cat.HasPlayer(pid) {
			continue
		}
		if err := t.ErasePlayerFromCategory(pid, a.CategoryID); err != nil {
			return err
		}
		a.applied = append(a.applied, pid)
	}
	return nil
}

func (a *ErasePlayersFromCategory) Undo(t *store.Tournament) error {
	for _, pid := range a.applied {
		if t.Player(pid) == nil || t.Category(a.CategoryID) == nil {
			continue
		}
		if err := t.AddPlayerToCategory(pid, a.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (a *ErasePlayersFromCategory) FreshClone() Action {
	return &ErasePlayersFromCategory{PlayerIDs: append([]ids.ID(nil), a.PlayerIDs...), CategoryID: a.CategoryID}
}
func (a *ErasePlayersFromCategory) Description() string { return "Erase players from category" }
func (a *ErasePlayersFromCategory) Tag() string         { return "ErasePlayersFromCategory" }

// ErasePlayersFromAllCategories unlinks a batch of players from every
// category they belong to, e.g. before deleting the players entirely.
type ErasePlayersFromAllCategories struct {
	PlayerIDs []ids.ID

	applied map[ids.ID][]ids.ID
}

func (a *ErasePlayersFromAllCategories) Apply(t *store.Tournament) error {
	a.applied = make(map[ids.ID][]ids.ID, len(a.PlayerIDs))
	for _, pid := range a.PlayerIDs {
		if t.Player(pid) == nil {
			continue
		}
		affected, err := t.ErasePlayerFromAllCategories(pid)
		if err != nil {
			return err
		}
		a.applied[pid] = affected
	}
	return nil
}

func (a *ErasePlayersFromAllCategories) Undo(t *store.Tournament) error {
	for pid, categories := range a.applied {
		if t.Player(pid) == nil {
			continue
		}
		for _, catID := range categories {
			if t.Category(catID) == nil {
				continue
			}
			if err := t.AddPlayerToCategory(pid, catID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *ErasePlayersFromAllCategories) FreshClone() Action {
	return &ErasePlayersFromAllCategories{PlayerIDs: append([]ids.ID(nil), a.PlayerIDs...)}
}
func (a *ErasePlayersFromAllCategories) Description() string { return "Erase players from all categories" }
func (a *ErasePlayersFromAllCategories) Tag() string         { return "ErasePlayersFromAllCategories" }
