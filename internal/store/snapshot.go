package store

import (
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/tatami"
)

// Snapshot is the full wire/disk representation of a tournament, used for
// the replication SYNC payload and for save-file persistence.
type Snapshot struct {
	ID   ids.ID `json:"id"`
	Name string `json:"name"`
	Salt string `json:"salt"`

	Players    []PlayerSnapshot   `json:"players"`
	Categories []CategorySnapshot `json:"categories"`
	Tatamis    []tatami.TatamiSnapshot `json:"tatamis"`
}

type PlayerSnapshot struct {
	ID     ids.ID       `json:"id"`
	Fields PlayerFields `json:"fields"`
}

type MatchSnapshot struct {
	ID            ids.ID     `json:"id"`
	Type          MatchType  `json:"type"`
	Title         string     `json:"title"`
	Bye           bool       `json:"bye"`
	WhitePlayer   *ids.ID    `json:"white_player,omitempty"`
	BluePlayer    *ids.ID    `json:"blue_player,omitempty"`
	NextMatch     *ids.ID    `json:"next_match,omitempty"`
	NextSide      Side       `json:"next_side"`
	WhiteFromPool *PoolRank  `json:"white_from_pool,omitempty"`
	BlueFromPool  *PoolRank  `json:"blue_from_pool,omitempty"`
	Status        MatchStatus `json:"status"`
	GoldenScore   bool       `json:"golden_score"`
	WhiteScore    Score      `json:"white_score"`
	BlueScore     Score      `json:"blue_score"`
	Duration      time.Duration `json:"duration"`
	ResumeTime    time.Time  `json:"resume_time"`
	Events        []MatchEvent `json:"events"`
}

type CategorySnapshot struct {
	ID         ids.ID           `json:"id"`
	Name       string           `json:"name"`
	Players    []ids.ID         `json:"players"`
	Matches    []MatchSnapshot  `json:"matches"`
	RulesetTag int              `json:"ruleset_tag"`
	DrawTag    int              `json:"draw_tag"`
	DrawSeed   int64            `json:"draw_seed"`
	PoolSplit  *PoolSplit       `json:"pool_split,omitempty"`
	Locations  map[MatchType]tatami.BlockLocation `json:"locations,omitempty"`
}

// Snapshot serializes the full tournament.
func (t *Tournament) Snapshot() Snapshot {
	snap := Snapshot{ID: t.ID, Name: t.Name, Salt: t.Salt}

	for _, p := range t.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{ID: p.ID, Fields: p.Fields})
	}

	for _, cat := range t.Categories {
		cs := CategorySnapshot{
			ID:         cat.ID,
			Name:       cat.Name,
			Players:    cat.PlayerIDs(),
			RulesetTag: cat.RulesetTag,
			DrawTag:    cat.DrawTag,
			DrawSeed:   cat.DrawSeed,
			PoolSplit:  cat.PoolSplit,
		}
		for _, m := range cat.matches {
			cs.Matches = append(cs.Matches, MatchSnapshot{
				ID: m.ID, Type: m.Type, Title: m.Title, Bye: m.Bye,
				WhitePlayer: m.WhitePlayer, BluePlayer: m.BluePlayer,
				NextMatch: m.NextMatch, NextSide: m.NextSide,
				WhiteFromPool: m.WhiteFromPool, BlueFromPool: m.BlueFromPool,
				Status: m.Status, GoldenScore: m.GoldenScore,
				WhiteScore: m.WhiteScore, BlueScore: m.BlueScore,
				Duration: m.Duration, ResumeTime: m.ResumeTime,
				Events: append([]MatchEvent(nil), m.Events...),
			})
		}
		if len(cat.Locations) > 0 {
			cs.Locations = make(map[MatchType]tatami.BlockLocation, len(cat.Locations))
			for k, v := range cat.Locations {
				if v != nil {
					cs.Locations[k] = *v
				}
			}
		}
		snap.Categories = append(snap.Categories, cs)
	}

	snap.Tatamis = t.Tatamis.Snapshot()
	return snap
}

// Restore rebuilds a Tournament from a Snapshot taken by Snapshot.
func Restore(snap Snapshot) *Tournament {
	t := NewTournament(snap.ID, snap.Name, snap.Salt)
	t.Tatamis = tatami.FromSnapshot(snap.Tatamis)

	for _, ps := range snap.Players {
		t.Players[ps.ID] = newPlayer(ps.ID, ps.Fields)
	}

	for _, cs := range snap.Categories {
		cat := newCategory(cs.ID, cs.Name, cs.RulesetTag, cs.DrawTag)
		cat.DrawSeed = cs.DrawSeed
		cat.PoolSplit = cs.PoolSplit
		t.Categories[cs.ID] = cat

		for _, pid := range cs.Players {
			cat.Players[pid] = struct{}{}
			if p, ok := t.Players[pid]; ok {
				p.Categories[cs.ID] = struct{}{}
			}
		}

		for i, ms := range cs.Matches {
			m := &Match{
				ID: ms.ID, Category: cs.ID, Type: ms.Type, Title: ms.Title, Bye: ms.Bye,
				WhitePlayer: ms.WhitePlayer, BluePlayer: ms.BluePlayer,
				NextMatch: ms.NextMatch, NextSide: ms.NextSide,
				WhiteFromPool: ms.WhiteFromPool, BlueFromPool: ms.BlueFromPool,
				Status: ms.Status, GoldenScore: ms.GoldenScore,
				WhiteScore: ms.WhiteScore, BlueScore: ms.BlueScore,
				Duration: ms.Duration, ResumeTime: ms.ResumeTime,
				Events: append([]MatchEvent(nil), ms.Events...),
			}
			cat.matches = append(cat.matches, m)
			cat.Matches = append(cat.Matches, m.ID)
			cat.MatchIndex[m.ID] = i
			cat.Counts[m.Type].adjust(m.Status, 1)

			if m.WhitePlayer != nil {
				if p, ok := t.Players[*m.WhitePlayer]; ok {
					p.Matches[MatchRef{Category: cs.ID, Match: m.ID}] = struct{}{}
				}
			}
			if m.BluePlayer != nil {
				if p, ok := t.Players[*m.BluePlayer]; ok {
					p.Matches[MatchRef{Category: cs.ID, Match: m.ID}] = struct{}{}
				}
			}
		}

		for k, v := range cs.Locations {
			loc := v
			cat.Locations[k] = &loc
		}
	}

	for _, cat := range t.Categories {
		for _, loc := range cat.Locations {
			if loc != nil && t.Tatamis.Contains(loc.Tatami.ID) {
				t.RecomputeTatamiBlock(*loc)
			}
		}
	}
	return t
}
