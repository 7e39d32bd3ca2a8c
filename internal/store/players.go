package store

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// Player returns the player for id, or nil if it doesn't exist.
func (t *Tournament) Player(id ids.ID) *Player {
	return t.Players[id]
}

// AddPlayer creates a new player. The id must not already exist; callers
// (internal/actions) are responsible for generating it deterministically.
func (t *Tournament) AddPlayer(id ids.ID, fields PlayerFields) error {
	if _, exists := t.Players[id]; exists {
		return NewValidationError("player %s already exists", id)
	}
	t.notify.BeginAddPlayers()
	defer t.notify.EndAddPlayers()

	t.Players[id] = newPlayer(id, fields)
	t.notify.NotePlayer(id)
	return nil
}

// ErasePlayer removes a player and scrubs it from every category and match
// that referenced it, failing with InternalInvariantViolation if the
// reverse indices disagree with the forward ones.
func (t *Tournament) ErasePlayer(id ids.ID) error {
	p, ok := t.Players[id]
	if !ok {
		return NewPreconditionLost("player %s does not exist", id)
	}

	t.notify.BeginErasePlayers()
	defer t.notify.EndErasePlayers()

	for catID := range p.Categories {
		cat, ok := t.Categories[catID]
		if !ok {
			return NewInvariantViolation("player %s references missing category %s", id, catID)
		}
		if _, ok := cat.Players[id]; !ok {
			return NewInvariantViolation("category %s missing back-reference to player %s", catID, id)
		}
		delete(cat.Players, id)
		t.notify.NoteCategory(catID)
	}

	for ref := range p.Matches {
		if err := t.clearMatchPlayerRef(ref.Category, ref.Match, id); err != nil {
			return err
		}
	}

	delete(t.Players, id)
	t.notify.NotePlayer(id)
	return nil
}

func (t *Tournament) clearMatchPlayerRef(categoryID, matchID, playerID ids.ID) error {
	m := t.categoryMatch(categoryID, matchID)
	if m == nil {
		return NewInvariantViolation("category %s has dangling match reference %s", categoryID, matchID)
	}
	switch {
	case m.WhitePlayer != nil && *m.WhitePlayer == playerID:
		m.WhitePlayer = nil
	case m.BluePlayer != nil && *m.BluePlayer == playerID:
		m.BluePlayer = nil
	}
	t.notify.BeginAddMatches(categoryID)
	t.notify.NoteMatch(categoryID, matchID)
	t.notify.EndAddMatches(categoryID)
	return nil
}

// ChangePlayerFields overwrites a player's descriptive fields.
func (t *Tournament) ChangePlayerFields(id ids.ID, fields PlayerFields) error {
	p, ok := t.Players[id]
	if !ok {
		return NewPreconditionLost("player %s does not exist", id)
	}
	t.notify.BeginAddPlayers()
	defer t.notify.EndAddPlayers()

	p.Fields = fields
	t.notify.NotePlayer(id)
	return nil
}

// AddPlayerToCategory adds the forward and reverse membership links between
// a player and a category. It is idempotent: re-adding an existing member
// is a no-op.
func (t *Tournament) AddPlayerToCategory(playerID, categoryID ids.ID) error {
	p, ok := t.Players[playerID]
	if !ok {
		return NewValidationError("player %s does not exist", playerID)
	}
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewValidationError("category %s does not exist", categoryID)
	}

	t.notify.BeginAddPlayers()
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()
	defer t.notify.EndAddPlayers()

	p.Categories[categoryID] = struct{}{}
	cat.Players[playerID] = struct{}{}
	t.notify.NotePlayer(playerID)
	t.notify.NoteCategory(categoryID)
	return nil
}

// ErasePlayerFromCategory removes the membership link in both directions.
func (t *Tournament) ErasePlayerFromCategory(playerID, categoryID ids.ID) error {
	p, ok := t.Players[playerID]
	if !ok {
		return NewPreconditionLost("player %s does not exist", playerID)
	}
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewPreconditionLost("category %s does not exist", categoryID)
	}
	if _, ok := p.Categories[categoryID]; !ok {
		return NewPreconditionLost("player %s is not in category %s", playerID, categoryID)
	}

	t.notify.BeginAddPlayers()
	t.notify.BeginAddCategories()
	defer t.notify.EndAddCategories()
	defer t.notify.EndAddPlayers()

	delete(p.Categories, categoryID)
	delete(cat.Players, playerID)
	t.notify.NotePlayer(playerID)
	t.notify.NoteCategory(categoryID)
	return nil
}

// ErasePlayerFromAllCategories removes a player's membership from every
// category it belongs to, returning the list of affected category ids so
// the caller (the ErasePlayersFromAllCategories action)
// can record them for undo.
func (t *Tournament) ErasePlayerFromAllCategories(playerID ids.ID) ([]ids.ID, error) {
	p, ok := t.Players[playerID]
	if !ok {
		return nil, NewPreconditionLost("player %s does not exist", playerID)
	}

	affected := make([]ids.ID, 0, len(p.Categories))
	for catID := range p.Categories {
		affected = append(affected, catID)
	}
	for _, catID := range affected {
		if err := t.ErasePlayerFromCategory(playerID, catID); err != nil {
			return nil, err
		}
	}
	return affected, nil
}
