package store

import (
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
)

// Match returns the match with the given id, wherever it lives, or nil.
func (t *Tournament) Match(categoryID, matchID ids.ID) *Match {
	return t.categoryMatch(categoryID, matchID)
}

func (t *Tournament) categoryMatch(categoryID, matchID ids.ID) *Match {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return nil
	}
	idx, ok := cat.MatchIndex[matchID]
	if !ok {
		return nil
	}
	return cat.matches[idx]
}

// MatchObjects returns a category's matches in schedule order.
func (c *Category) MatchObjects() []*Match { return c.matches }

// BeginResetMatches / EndResetMatches bracket a full redraw: every match
// the category currently holds is discarded first, player<->match reverse
// links are scrubbed, and draw-system auxiliary state is cleared. Between
// the two calls the caller appends fresh matches with AddMatch.
func (t *Tournament) BeginResetMatches(categoryID ids.ID) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewPreconditionLost("category %s does not exist", categoryID)
	}
	t.notify.BeginResetMatches(categoryID)

	for _, m := range cat.matches {
		t.unlinkMatchPlayers(m)
	}
	cat.matches = nil
	cat.Matches = nil
	cat.MatchIndex = make(map[ids.ID]int)
	cat.Counts = map[MatchType]*Counts{Knockout: {}, Final: {}}
	cat.PoolSplit = nil
	return nil
}

// EndResetMatches closes the bracket opened by BeginResetMatches.
func (t *Tournament) EndResetMatches(categoryID ids.ID) {
	t.notify.EndResetMatches(categoryID)
}

func (t *Tournament) unlinkMatchPlayers(m *Match) {
	if m.WhitePlayer != nil {
		if p, ok := t.Players[*m.WhitePlayer]; ok {
			delete(p.Matches, MatchRef{Category: m.Category, Match: m.ID})
		}
	}
	if m.BluePlayer != nil {
		if p, ok := t.Players[*m.BluePlayer]; ok {
			delete(p.Matches, MatchRef{Category: m.Category, Match: m.ID})
		}
	}
}

func (t *Tournament) linkMatchPlayers(m *Match) {
	if m.WhitePlayer != nil {
		if p, ok := t.Players[*m.WhitePlayer]; ok {
			p.Matches[MatchRef{Category: m.Category, Match: m.ID}] = struct{}{}
		}
	}
	if m.BluePlayer != nil {
		if p, ok := t.Players[*m.BluePlayer]; ok {
			p.Matches[MatchRef{Category: m.Category, Match: m.ID}] = struct{}{}
		}
	}
}

// AddMatch appends a match to a category's schedule at the given index
// (append at the end when index == len(Matches)). Callers add a draw's
// matches inside a BeginResetMatches/EndResetMatches bracket, which turns
// the per-match notifications into one ResetCategoryResults.
func (t *Tournament) AddMatch(categoryID ids.ID, index int, m *Match) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewValidationError("category %s does not exist", categoryID)
	}
	if index < 0 || index > len(cat.matches) {
		index = len(cat.matches)
	}

	cat.matches = append(cat.matches, nil)
	copy(cat.matches[index+1:], cat.matches[index:])
	cat.matches[index] = m

	cat.Matches = append(cat.Matches, ids.Nil)
	copy(cat.Matches[index+1:], cat.Matches[index:])
	cat.Matches[index] = m.ID

	for i := index; i < len(cat.matches); i++ {
		cat.MatchIndex[cat.matches[i].ID] = i
	}

	cat.Counts[m.Type].adjust(m.Status, 1)
	t.linkMatchPlayers(m)
	t.notify.NoteMatch(categoryID, m.ID)
	return nil
}

// EraseMatch removes a single match from a category, reversing an AddMatch
// that was not part of a full reset. No action in this repository calls it.
func (t *Tournament) EraseMatch(categoryID, matchID ids.ID) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewPreconditionLost("category %s does not exist", categoryID)
	}
	idx, ok := cat.MatchIndex[matchID]
	if !ok {
		return NewPreconditionLost("match %s does not exist in category %s", matchID, categoryID)
	}
	m := cat.matches[idx]
	t.unlinkMatchPlayers(m)
	cat.Counts[m.Type].adjust(m.Status, -1)

	cat.matches = append(cat.matches[:idx], cat.matches[idx+1:]...)
	cat.Matches = append(cat.Matches[:idx], cat.Matches[idx+1:]...)
	delete(cat.MatchIndex, matchID)
	for i := idx; i < len(cat.matches); i++ {
		cat.MatchIndex[cat.matches[i].ID] = i
	}

	t.notify.NoteMatch(categoryID, matchID)
	return nil
}

// SetMatchPlayer assigns (or clears, with ids.Nil) one side of a match.
func (t *Tournament) SetMatchPlayer(categoryID, matchID ids.ID, side Side, playerID ids.ID) error {
	m := t.categoryMatch(categoryID, matchID)
	if m == nil {
		return NewPreconditionLost("match %s does not exist in category %s", matchID, categoryID)
	}
	t.unlinkMatchSide(m, side)

	if playerID == ids.Nil {
		t.setMatchSide(m, side, nil)
	} else {
		if _, ok := t.Players[playerID]; !ok {
			return NewValidationError("player %s does not exist", playerID)
		}
		id := playerID
		t.setMatchSide(m, side, &id)
	}
	t.linkMatchSide(m, side)

	t.notify.BeginAddMatches(categoryID)
	t.notify.NoteMatch(categoryID, matchID)
	t.notify.EndAddMatches(categoryID)
	return nil
}

func (t *Tournament) unlinkMatchSide(m *Match, side Side) {
	var cur *ids.ID
	if side == White {
		cur = m.WhitePlayer
	} else {
		cur = m.BluePlayer
	}
	if cur == nil {
		return
	}
	if p, ok := t.Players[*cur]; ok {
		delete(p.Matches, MatchRef{Category: m.Category, Match: m.ID})
	}
}

func (t *Tournament) linkMatchSide(m *Match, side Side) {
	var cur *ids.ID
	if side == White {
		cur = m.WhitePlayer
	} else {
		cur = m.BluePlayer
	}
	if cur == nil {
		return
	}
	if p, ok := t.Players[*cur]; ok {
		p.Matches[MatchRef{Category: m.Category, Match: m.ID}] = struct{}{}
	}
}

func (t *Tournament) setMatchSide(m *Match, side Side, id *ids.ID) {
	if side == White {
		m.WhitePlayer = id
	} else {
		m.BluePlayer = id
	}
}

// ApplyMatchEvent transitions a match's score/status in response to a
// scoring event and appends it to the match's journal, recomputing the
// category's lifecycle counts and, when the match's block is placed on an
// existing tatami, that concurrent group's cached status (via
// RecomputeTatamiBlock).
func (t *Tournament) ApplyMatchEvent(categoryID, matchID ids.ID, ev MatchEvent, newStatus MatchStatus, white, blue Score, duration time.Duration, resumeTime time.Time, goldenScore bool) error {
	cat, ok := t.Categories[categoryID]
	if !ok {
		return NewPreconditionLost("category %s does not exist", categoryID)
	}
	m := t.categoryMatch(categoryID, matchID)
	if m == nil {
		return NewPreconditionLost("match %s does not exist in category %s", matchID, categoryID)
	}

	cat.Counts[m.Type].adjust(m.Status, -1)

	m.Events = append(m.Events, ev)
	m.Status = newStatus
	m.WhiteScore = white
	m.BlueScore = blue
	m.Duration = duration
	m.ResumeTime = resumeTime
	m.GoldenScore = goldenScore

	if newStatus == Finished {
		for _, pid := range []*ids.ID{m.WhitePlayer, m.BluePlayer} {
			if pid != nil {
				if p, ok := t.Players[*pid]; ok {
					p.LastFinishTime = ev.At
				}
			}
		}
	}

	cat.Counts[m.Type].adjust(newStatus, 1)
	if loc := cat.Locations[m.Type]; loc != nil && t.Tatamis.Contains(loc.Tatami.ID) {
		t.RecomputeTatamiBlock(*loc)
	}

	t.notify.BeginAddMatches(categoryID)
	t.notify.NoteMatch(categoryID, matchID)
	t.notify.EndAddMatches(categoryID)
	return nil
}

// TrimMatchEvents truncates a match's event journal back to n entries, used
// by scoring-action undo to restore the exact pre-image.
func (t *Tournament) TrimMatchEvents(categoryID, matchID ids.ID, n int) error {
	m := t.categoryMatch(categoryID, matchID)
	if m == nil {
		return NewPreconditionLost("match %s does not exist in category %s", matchID, categoryID)
	}
	if n < 0 || n > len(m.Events) {
		return NewInvariantViolation("cannot trim match %s events to %d of %d", matchID, n, len(m.Events))
	}
	m.Events = m.Events[:n]
	return nil
}
