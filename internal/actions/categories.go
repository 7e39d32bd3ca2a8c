package actions

import (
	"github.com/svendcsvendsen/judoassistant/internal/draw"
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/ruleset"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// AddCategory creates a category with the given ruleset/draw-system tags,
// validated against their registries before touching the store.
type AddCategory struct {
	ID         ids.ID
	Name       string
	RulesetTag int
	DrawTag    int

	applied bool
}

func (a *AddCategory) Apply(t *store.Tournament) error {
	if _, ok := ruleset.ByTag(a.RulesetTag); !ok {
		return store.NewValidationError("unknown ruleset tag %d", a.RulesetTag)
	}
	if _, ok := draw.ByTag(a.DrawTag); !ok {
		return store.NewValidationError("unknown draw system tag %d", a.DrawTag)
	}
	if err := t.AddCategory(a.ID, a.Name, a.RulesetTag, a.DrawTag); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *AddCategory) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	err := t.EraseCategory(a.ID)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *AddCategory) FreshClone() Action {
	return &AddCategory{ID: a.ID, Name: a.Name, RulesetTag: a.RulesetTag, DrawTag: a.DrawTag}
}
func (a *AddCategory) Description() string { return "Add category" }
func (a *AddCategory) Tag() string         { return "AddCategory" }

// categorySnapshot captures everything EraseCategories needs to restore a
// category exactly: its fields, member players, and scheduled matches.
type categorySnapshot struct {
	name       string
	rulesetTag int
	drawTag    int
	players    []ids.ID
	matches    []*store.Match
}

// EraseCategories removes a batch of categories (matches first, then the
// category itself), capturing enough to restore each one on Undo.
type EraseCategories struct {
	IDs []ids.ID

	applied  bool
	snapshot map[ids.ID]*categorySnapshot
	order    []ids.ID
}

func (a *EraseCategories) Apply(t *store.Tournament) error {
	a.snapshot = make(map[ids.ID]*categorySnapshot)
	a.order = a.order[:0]
	for _, id := range a.IDs {
		cat := t.Category(id)
		if cat == nil {
			continue
		}
		snap := &categorySnapshot{
			name:       cat.Name,
			rulesetTag: cat.RulesetTag,
			drawTag:    cat.DrawTag,
			players:    cat.PlayerIDs(),
			matches:    append([]*store.Match(nil), cat.MatchObjects()...),
		}
		a.snapshot[id] = snap
		a.order = append(a.order, id)

		for _, blockType := range []store.MatchType{store.Knockout, store.Final} {
			_ = t.ClearTatamiLocation(id, blockType)
		}
		if err := t.BeginResetMatches(id); err != nil {
			return err
		}
		t.EndResetMatches(id)
		if err := t.EraseCategory(id); err != nil {
			return err
		}
	}
	a.applied = true
	return nil
}

func (a *EraseCategories) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	for i := len(a.order) - 1; i >= 0; i-- {
		id := a.order[i]
		snap := a.snapshot[id]
		if err := t.AddCategory(id, snap.name, snap.rulesetTag, snap.drawTag); err != nil {
			return err
		}
		for _, pid := range snap.players {
			if t.Player(pid) == nil {
				continue
			}
			if err := t.AddPlayerToCategory(pid, id); err != nil {
				return err
			}
		}
		if len(snap.matches) > 0 {
			if err := t.BeginResetMatches(id); err != nil {
				return err
			}
			for i, m := range snap.matches {
				if err := t.AddMatch(id, i, m); err != nil {
					return err
				}
			}
			t.EndResetMatches(id)
		}
	}
	return nil
}

func (a *EraseCategories) FreshClone() Action {
	return &EraseCategories{IDs: append([]ids.ID(nil), a.IDs...)}
}
func (a *EraseCategories) Description() string { return "Erase categories" }
func (a *EraseCategories) Tag() string         { return "EraseCategories" }

// ChangeCategoryName renames a category.
type ChangeCategoryName struct {
	ID   ids.ID
	Name string

	applied bool
	lost    bool
	prior   string
}

func (a *ChangeCategoryName) Apply(t *store.Tournament) error {
	cat := t.Category(a.ID)
	if cat == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	a.prior = cat.Name
	if err := t.ChangeCategoryName(a.ID, a.Name); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *ChangeCategoryName) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	err := t.ChangeCategoryName(a.ID, a.prior)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *ChangeCategoryName) FreshClone() Action  { return &ChangeCategoryName{ID: a.ID, Name: a.Name} }
func (a *ChangeCategoryName) Description() string { return "Rename category" }
func (a *ChangeCategoryName) Tag() string         { return "ChangeCategoryName" }

// ChangeCategoryRuleset swaps a category's ruleset tag.
type ChangeCategoryRuleset struct {
	ID         ids.ID
	RulesetTag int

	applied bool
	lost    bool
	prior   int
}

func (a *ChangeCategoryRuleset) Apply(t *store.Tournament) error {
	if _, ok := ruleset.ByTag(a.RulesetTag); !ok {
		return store.NewValidationError("unknown ruleset tag %d", a.RulesetTag)
	}
	cat := t.Category(a.ID)
	if cat == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	a.prior = cat.RulesetTag
	if err := t.ChangeCategoryRuleset(a.ID, a.RulesetTag); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *ChangeCategoryRuleset) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	err := t.ChangeCategoryRuleset(a.ID, a.prior)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *ChangeCategoryRuleset) FreshClone() Action {
	return &ChangeCategoryRuleset{ID: a.ID, RulesetTag: a.RulesetTag}
}
func (a *ChangeCategoryRuleset) Description() string { return "Change category ruleset" }
func (a *ChangeCategoryRuleset) Tag() string         { return "ChangeCategoryRuleset" }

// ChangeCategoryDrawSystem swaps a category's draw-system tag. It does not
// redraw existing matches; dispatch DrawCategory separately for that.
type ChangeCategoryDrawSystem struct {
	ID      ids.ID
	DrawTag int

	applied bool
	lost    bool
	prior   int
}

func (a *ChangeCategoryDrawSystem) Apply(t *store.Tournament) error {
	if _, ok := draw.ByTag(a.DrawTag); !ok {
		return store.NewValidationError("unknown draw system tag %d", a.DrawTag)
	}
	cat := t.Category(a.ID)
	if cat == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	a.prior = cat.DrawTag
	if err := t.ChangeCategoryDrawSystem(a.ID, a.DrawTag); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *ChangeCategoryDrawSystem) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	err := t.ChangeCategoryDrawSystem(a.ID, a.prior)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *ChangeCategoryDrawSystem) FreshClone() Action {
	return &ChangeCategoryDrawSystem{ID: a.ID, DrawTag: a.DrawTag}
}
func (a *ChangeCategoryDrawSystem) Description() string { return "Change category draw system" }
func (a *ChangeCategoryDrawSystem) Tag() string         { return "ChangeCategoryDrawSystem" }
