package actions

import (
	"github.com/svendcsvendsen/judoassistant/internal/draw"
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/ruleset"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// ResolvePoolFinals fills in any double-pool final slots whose sub-pool has
// finished since the last scoring action. A scoring action calls this for
// its match's category right after applying, whenever the event leaves the
// match Finished; it is a no-op for categories that aren't a multi-pool
// draw.
func ResolvePoolFinals(t *store.Tournament, categoryID ids.ID) error {
	cat := t.Category(categoryID)
	if cat == nil || cat.PoolSplit == nil {
		return nil
	}

	standingsA, doneA := poolStandings(t, cat, cat.PoolSplit.A)
	standingsB, doneB := poolStandings(t, cat, cat.PoolSplit.B)

	for _, m := range cat.MatchObjects() {
		if m.WhiteFromPool != nil {
			if filled, err := fillFromPool(t, cat, m, store.White, m.WhiteFromPool, standingsA, standingsB, doneA, doneB); err != nil {
				return err
			} else if filled {
				m.WhiteFromPool = nil
			}
		}
		if m.BlueFromPool != nil {
			if filled, err := fillFromPool(t, cat, m, store.Blue, m.BlueFromPool, standingsA, standingsB, doneA, doneB); err != nil {
				return err
			} else if filled {
				m.BlueFromPool = nil
			}
		}
	}
	return nil
}

func fillFromPool(t *store.Tournament, cat *store.Category, m *store.Match, side store.Side, rank *store.PoolRank, standingsA, standingsB []draw.Standing, doneA, doneB bool) (bool, error) {
	var standings []draw.Standing
	var ready bool
	if rank.PoolID == 0 {
		standings, ready = standingsA, doneA
	} else {
		standings, ready = standingsB, doneB
	}
	if !ready {
		return false, nil
	}
	for _, s := range standings {
		if s.Place == rank.Rank {
			if err := t.SetMatchPlayer(cat.ID, m.ID, side, s.Player); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func poolStandings(t *store.Tournament, cat *store.Category, matchIDs []ids.ID) ([]draw.Standing, bool) {
	pool := draw.NewPool()
	results := make([]draw.MatchResult, 0, len(matchIDs))
	for _, mid := range matchIDs {
		m := t.Match(cat.ID, mid)
		if m == nil {
			continue
		}
		results = append(results, matchResult(t, cat, m))
	}
	if !pool.IsFinished(results) {
		return nil, false
	}
	return pool.Results(results), true
}

func matchResult(t *store.Tournament, cat *store.Category, m *store.Match) draw.MatchResult {
	r := draw.MatchResult{White: m.WhitePlayer, Blue: m.BluePlayer, Bye: m.Bye}
	if m.Bye {
		r.Finished = true
		r.WinnerWhite = m.WhitePlayer != nil
		return r
	}
	if m.Status != store.Finished {
		return r
	}
	r.Finished = true
	rs, ok := ruleset.ByTag(cat.RulesetTag)
	if !ok {
		return r
	}
	snapshot := ruleset.Snapshot{
		Status:      ruleset.Status(m.Status),
		GoldenScore: m.GoldenScore,
		White:       ruleset.Score{Ippon: m.WhiteScore.Ippon, Wazari: m.WhiteScore.Wazari, Shido: m.WhiteScore.Shido, HansokuMake: m.WhiteScore.HansokuMake},
		Blue:        ruleset.Score{Ippon: m.BlueScore.Ippon, Wazari: m.BlueScore.Wazari, Shido: m.BlueScore.Shido, HansokuMake: m.BlueScore.HansokuMake},
		Duration:    m.Duration,
		ResumeTime:  m.ResumeTime,
	}
	r.WinnerWhite = rs.Winner(snapshot) == ruleset.WinnerWhite
	return r
}
