package actions

import (
	"github.com/svendcsvendsen/judoassistant/internal/draw"
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

func toStoreType(t draw.MatchSpecType) store.MatchType {
	if t == draw.TypeFinal {
		return store.Final
	}
	return store.Knockout
}

func toStoreSide(s draw.MatchSpecSide) store.Side {
	if s == draw.SideBlue {
		return store.Blue
	}
	return store.White
}

// DrawCategory discards a category's current matches and redraws them from
// its member players using the category's configured draw system. Seed and
// PlayerOrder are chosen by the dispatching client so every replica
// produces byte-identical matches and ids from the same action.
type DrawCategory struct {
	CategoryID  ids.ID
	PlayerOrder []ids.ID
	Seed        int64

	applied  bool
	priorIDs []ids.ID
	priorRaw []*store.Match
}

func (a *DrawCategory) Apply(t *store.Tournament) error {
	cat := t.Category(a.CategoryID)
	if cat == nil {
		return store.NewValidationError("category %s does not exist", a.CategoryID)
	}
	system, ok := draw.ByTag(cat.DrawTag)
	if !ok {
		return store.NewValidationError("category %s has unknown draw tag %d", a.CategoryID, cat.DrawTag)
	}
	for _, pid := range a.PlayerOrder {
		if !cat.HasPlayer(pid) {
			return store.NewValidationError("player %s is not a member of category %s", pid, a.CategoryID)
		}
	}

	a.priorRaw = append([]*store.Match(nil), cat.MatchObjects()...)
	a.priorIDs = append([]ids.ID(nil), cat.Matches...)

	players := make([]draw.PlayerSpec, len(a.PlayerOrder))
	for i, pid := range a.PlayerOrder {
		players[i] = draw.PlayerSpec{ID: pid}
	}

	specs := system.Draw(players, a.Seed)

	if err := t.BeginResetMatches(a.CategoryID); err != nil {
		return err
	}
	defer t.EndResetMatches(a.CategoryID)

	gen := ids.NewGeneratorFromSeed(a.Seed)
	matchIDs := make([]ids.ID, len(specs))
	for i := range specs {
		matchIDs[i] = gen.Next()
	}

	for i, spec := range specs {
		m := &store.Match{
			ID:       matchIDs[i],
			Category: a.CategoryID,
			Type:     toStoreType(spec.Type),
			Title:    spec.Title,
			Bye:      spec.Bye,
		}
		if spec.White != nil {
			m.WhitePlayer = spec.White
		}
		if spec.Blue != nil {
			m.BluePlayer = spec.Blue
		}
		if spec.WhiteFromPool != nil {
			m.WhiteFromPool = &store.PoolRank{PoolID: spec.WhiteFromPool.PoolID, Rank: spec.WhiteFromPool.Rank}
		}
		if spec.BlueFromPool != nil {
			m.BlueFromPool = &store.PoolRank{PoolID: spec.BlueFromPool.PoolID, Rank: spec.BlueFromPool.Rank}
		}
		if spec.NextIndex >= 0 {
			next := matchIDs[spec.NextIndex]
			m.NextMatch = &next
			m.NextSide = toStoreSide(spec.NextSide)
		}
		if spec.Bye {
			m.Status = store.Finished
			if m.WhitePlayer != nil {
				m.WhiteScore = store.Score{Ippon: 1}
			} else if m.BluePlayer != nil {
				m.BlueScore = store.Score{Ippon: 1}
			}
		}
		if err := t.AddMatch(a.CategoryID, i, m); err != nil {
			return err
		}
		if spec.Bye && m.NextMatch != nil {
			winner := m.WhitePlayer
			if winner == nil {
				winner = m.BluePlayer
			}
			if winner != nil {
				if err := t.SetMatchPlayer(a.CategoryID, *m.NextMatch, toStoreSide(m.NextSide), *winner); err != nil {
					return err
				}
			}
		}
	}

	if poolSplit := buildPoolSplit(specs, matchIDs); poolSplit != nil {
		cat.PoolSplit = poolSplit
	}

	a.applied = true
	return nil
}

func buildPoolSplit(specs []draw.MatchSpec, matchIDs []ids.ID) *store.PoolSplit {
	var split store.PoolSplit
	has := false
	for i, s := range specs {
		switch s.PoolID {
		case 0:
			split.A = append(split.A, matchIDs[i])
			has = true
		case 1:
			split.B = append(split.B, matchIDs[i])
			has = true
		}
	}
	if !has {
		return nil
	}
	return &split
}

func (a *DrawCategory) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if err := t.BeginResetMatches(a.CategoryID); err != nil {
		if store.IsPreconditionLost(err) {
			return nil
		}
		return err
	}
	defer t.EndResetMatches(a.CategoryID)

	for i, m := range a.priorRaw {
		if err := t.AddMatch(a.CategoryID, i, m); err != nil {
			return err
		}
	}
	if cat := t.Category(a.CategoryID); cat != nil {
		cat.PoolSplit = nil
	}
	return nil
}

func (a *DrawCategory) FreshClone() Action {
	return &DrawCategory{CategoryID: a.CategoryID, PlayerOrder: append([]ids.ID(nil), a.PlayerOrder...), Seed: a.Seed}
}
func (a *DrawCategory) Description() string { return "Draw category" }
func (a *DrawCategory) Tag() string         { return "DrawCategory" }

// SetMatchPlayer assigns (or clears) one side of an already-scheduled
// match, used for manual bracket correction outside of a redraw.
type SetMatchPlayer struct {
	CategoryID ids.ID
	MatchID    ids.ID
	Side       store.Side
	PlayerID   ids.ID // ids.Nil clears the side

	applied bool
	lost    bool
	prior   ids.ID
	priorOK bool
}

func (a *SetMatchPlayer) Apply(t *store.Tournament) error {
	m := t.Match(a.CategoryID, a.MatchID)
	if m == nil {
		a.applied = true
		a.lost = true
		return nil
	}
	if a.Side == store.White {
		if m.WhitePlayer != nil {
			a.prior, a.priorOK = *m.WhitePlayer, true
		}
	} else {
		if m.BluePlayer != nil {
			a.prior, a.priorOK = *m.BluePlayer, true
		}
	}
	if err := t.SetMatchPlayer(a.CategoryID, a.MatchID, a.Side, a.PlayerID); err != nil {
		return err
	}
	a.applied = true
	return nil
}

func (a *SetMatchPlayer) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	if a.lost {
		return nil
	}
	prior := ids.Nil
	if a.priorOK {
		prior = a.prior
	}
	err := t.SetMatchPlayer(a.CategoryID, a.MatchID, a.Side, prior)
	if store.IsPreconditionLost(err) {
		return nil
	}
	return err
}

func (a *SetMatchPlayer) FreshClone() Action {
	return &SetMatchPlayer{CategoryID: a.CategoryID, MatchID: a.MatchID, Side: a.Side, PlayerID: a.PlayerID}
}
func (a *SetMatchPlayer) Description() string { return "Set match player" }
func (a *SetMatchPlayer) Tag() string         { return "SetMatchPlayer" }
