// Package store holds the tournament aggregate: players, categories,
// matches, and the tatami schedule, plus the cross-index discipline that
// keeps denormalised links (player<->category, player<->match,
// category<->tatami block) consistent. Mutating methods on Store are only
// legal from inside an action's Apply/Undo (internal/actions) — this
// package itself never decides when a mutation is allowed, it only performs
// it and fires the matching notification.
package store

import (
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/tatami"
)

// MatchType is re-exported from tatami so callers of this package never
// need to import tatami just to write store.Knockout / store.Final.
type MatchType = tatami.MatchType

const (
	Knockout = tatami.Knockout
	Final    = tatami.Final
)

// MatchStatus is the lifecycle state of a running match.
type MatchStatus int

const (
	NotStarted MatchStatus = iota
	Paused
	Unpaused
	Finished
)

// PlayerFields holds the descriptive attributes of a player.
type PlayerFields struct {
	FirstName string
	LastName  string
	Club      string
	Age       *int
	Weight    *float64
	Rank      string
	Country   string
	Sex       string
}

// MatchRef identifies a match within its owning category.
type MatchRef struct {
	Category ids.ID
	Match    ids.ID
}

// Player is a tournament participant plus the two reverse indices the store
// keeps consistent with Category.Players and Match.White/BluePlayer.
type Player struct {
	ID     ids.ID
	Fields PlayerFields

	Categories map[ids.ID]struct{}
	Matches    map[MatchRef]struct{}

	// LastFinishTime is the master-clock time this player's most recent
	// finished match ended, used to seed first-turn/rest-period logic.
	LastFinishTime time.Time
}

func newPlayer(id ids.ID, fields PlayerFields) *Player {
	return &Player{
		ID:         id,
		Fields:     fields,
		Categories: make(map[ids.ID]struct{}),
		Matches:    make(map[MatchRef]struct{}),
	}
}

// Score is the accumulated score for one side of a match.
type Score struct {
	Ippon       int
	Wazari      int
	Shido       int
	HansokuMake bool
}

// MatchEventKind enumerates the journal entries kept for exact undo of a
// match's scoring history.
type MatchEventKind int

const (
	EventResume MatchEventKind = iota
	EventPause
	EventIppon
	EventWazari
	EventShido
	EventHansokuMake
)

// MatchEvent is one journal entry: a scoring action plus the master-clock
// time it occurred.
type MatchEvent struct {
	Kind MatchEventKind
	Side Side
	At   time.Time
}

// Side identifies one of the two competitors in a match.
type Side int

const (
	White Side = iota
	Blue
)

// Match is one bout within a category.
type Match struct {
	ID       ids.ID
	Category ids.ID
	Type     MatchType
	Title    string
	Bye      bool

	WhitePlayer *ids.ID
	BluePlayer  *ids.ID

	// NextMatch and NextSide locate where this match's winner advances to
	// in a knockout-style bracket; NextMatch is nil for a match with no
	// successor (a pool match, or a bracket final).
	NextMatch *ids.ID
	NextSide  Side

	// WhiteFromPool and BlueFromPool mark a double-pool final's sides that
	// are still waiting on a sub-pool's standings; cleared once resolved.
	WhiteFromPool *PoolRank
	BlueFromPool  *PoolRank

	Status      MatchStatus
	GoldenScore bool

	WhiteScore Score
	BlueScore  Score

	Duration   time.Duration
	ResumeTime time.Time

	// Events is the append-only journal of scoring events, used to trim
	// back to an exact prior length on undo.
	Events []MatchEvent
}

// Counts tallies matches of one type by lifecycle bucket.
type Counts struct {
	NotStarted int
	Started    int
	Finished   int
}

func (c *Counts) adjust(status MatchStatus, delta int) {
	switch status {
	case NotStarted:
		c.NotStarted += delta
	case Paused, Unpaused:
		c.Started += delta
	case Finished:
		c.Finished += delta
	}
}

// PoolSplit records which matches belong to each half of a double-pool
// draw, the one piece of state that draw system can't recompute purely
// from the ordered match list (see draw.DoublePool).
type PoolSplit struct {
	A []ids.ID
	B []ids.ID
}

// PoolRank names a rank within a double-pool category's sub-pool (0 or 1).
type PoolRank struct {
	PoolID int
	Rank   int
}

// Category groups players under one ruleset and draw system.
type Category struct {
	ID   ids.ID
	Name string

	Players map[ids.ID]struct{}

	Matches    []ids.ID
	MatchIndex map[ids.ID]int
	matches    []*Match

	Counts map[MatchType]*Counts

	RulesetTag int
	DrawTag    int

	// DrawSeed is carried through Snapshot/Restore. DrawCategory does not
	// write it, so it keeps its loaded value (zero for a new category)
	// rather than the seed of the last draw.
	DrawSeed int64

	// PoolSplit is only populated when DrawTag selects the double-pool
	// draw system; nil otherwise.
	PoolSplit *PoolSplit

	Locations map[MatchType]*tatami.BlockLocation

	// resultsDirty is not set or read anywhere; results are not cached.
	resultsDirty bool
}

func newCategory(id ids.ID, name string, rulesetTag, drawTag int) *Category {
	return &Category{
		ID:         id,
		Name:       name,
		Players:    make(map[ids.ID]struct{}),
		MatchIndex: make(map[ids.ID]int),
		Counts:     map[MatchType]*Counts{Knockout: {}, Final: {}},
		RulesetTag: rulesetTag,
		DrawTag:    drawTag,
		Locations:  make(map[MatchType]*tatami.BlockLocation),
	}
}

// Tournament is the full persisted aggregate.
type Tournament struct {
	ID   ids.ID
	Name string
	Salt string

	Players    map[ids.ID]*Player
	Categories map[ids.ID]*Category

	Tatamis *tatami.List

	notify *notifier
}

// NewTournament creates an empty tournament with the given name and salt.
// The salt seeds every deterministic id generator used while the
// tournament is alive (see internal/ids).
func NewTournament(id ids.ID, name, salt string) *Tournament {
	return &Tournament{
		ID:         id,
		Name:       name,
		Salt:       salt,
		Players:    make(map[ids.ID]*Player),
		Categories: make(map[ids.ID]*Category),
		Tatamis:    tatami.NewList(),
		notify:     newNotifier(),
	}
}

// Subscribe registers l to receive change notifications for this
// tournament.
func (t *Tournament) Subscribe(l ChangeListener) {
	t.notify.Subscribe(l)
}
