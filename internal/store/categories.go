package store

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// Category returns the category for id, or nil if it doesn't exist.
func (t *Tournament) Category(id ids.ID) *Category {
	return t.Categories[id]
}

// AddCategory creates a new category with the given name, ruleset tag, and
// draw-system tag. Both tags are validated by the ruleset/draw registries at
// the action layer, not here.
func (t *Tournament) AddCategory(id ids.ID, name string, rulesetTag, drawTag int) error {
	if _, exists := t.Categories[id]; exists {
		return NewValidationError("category %s already exists", id)
	}
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()

	t.Categories[id] = newCategory(id, name, rulesetTag, drawTag)
	t.notify.NoteCategory(id)
	return nil
}

// EraseCategory removes a category, clearing its membership from every
// player that belonged to it. The caller must have already called
// ClearTatamiLocation for each block type the category held and
// BeginResetMatches/EndResetMatches with an empty draw to unlink its
// matches from players; EraseCategory itself only drops the category
// object and its player memberships.
func (t *Tournament) EraseCategory(id ids.ID) error {
	cat, ok := t.Categories[id]
	if !ok {
		return NewPreconditionLost("category %s does not exist", id)
	}

	t.notify.BeginEraseCategories()
	defer t.notify.EndEraseCategories()

	for playerID := range cat.Players {
		p, ok := t.Players[playerID]
		if !ok {
			return NewInvariantViolation("category %s references missing player %s", id, playerID)
		}
		delete(p.Categories, id)
		t.notify.NotePlayer(playerID)
	}

	delete(t.Categories, id)
	t.notify.NoteCategory(id)
	return nil
}

// ChangeCategoryName renames a category in place.
func (t *Tournament) ChangeCategoryName(id ids.ID, name string) error {
	cat, ok := t.Categories[id]
	if !ok {
		return NewPreconditionLost("category %s does not exist", id)
	}
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()

	cat.Name = name
	t.notify.NoteCategory(id)
	return nil
}

// ChangeCategoryRuleset swaps the ruleset tag a category scores matches
// with. It does not retroactively rescore existing matches.
func (t *Tournament) ChangeCategoryRuleset(id ids.ID, rulesetTag int) error {
	cat, ok := t.Categories[id]
	if !ok {
		return NewPreconditionLost("category %s does not exist", id)
	}
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()

	cat.RulesetTag = rulesetTag
	t.notify.NoteCategory(id)
	return nil
}

// ChangeCategoryDrawSystem swaps the draw-system tag a category will use on
// its next DrawCategory. It does not retroactively redraw existing matches.
func (t *Tournament) ChangeCategoryDrawSystem(id ids.ID, drawTag int) error {
	cat, ok := t.Categories[id]
	if !ok {
		return NewPreconditionLost("category %s does not exist", id)
	}
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()

	cat.DrawTag = drawTag
	cat.PoolSplit = nil
	t.notify.NoteCategory(id)
	return nil
}

// PlayerIDs returns the member ids of a category in no particular order.
func (c *Category) PlayerIDs() []ids.ID {
	out := make([]ids.ID, 0, len(c.Players))
	for id := range c.Players {
		out = append(out, id)
	}
	return out
}

// HasPlayer reports whether playerID belongs to this category.
func (c *Category) HasPlayer(playerID ids.ID) bool {
	_, ok := c.Players[playerID]
	return ok
}
