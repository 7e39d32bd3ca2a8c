// Package draw turns a category's player list into a schedule of matches.
// Draw systems are pure functions over explicit snapshots: they never touch
// internal/store directly, so store and draw have no import cycle between
// them — internal/actions is the layer that reads a category out of the
// store, calls a draw system, and writes the resulting matches back.
package draw

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// PlayerSpec is the minimal player information a draw system needs: its id.
// The order of the slice passed to Draw is the seeding order.
type PlayerSpec struct {
	ID ids.ID
}

// MatchSpec describes one match a draw system wants created. White/Blue are
// nil for a bye or an unseeded slot to be filled later (e.g. a knockout
// round's winner-of-match slot, filled through the feeding match's
// NextIndex/NextSide, or a WhiteFromPool/BlueFromPool slot).
type MatchSpec struct {
	Type        MatchSpecType
	White, Blue *ids.ID
	Bye         bool
	Title       string

	// NextIndex is the index within the same Draw() result slice that this
	// match's winner advances to, or -1 if there is none (a pool match, or
	// a bracket's final). NextSide says which side of that match the
	// winner fills.
	NextIndex int
	NextSide  MatchSpecSide

	// PoolID distinguishes which sub-pool a match belongs to in a
	// multi-pool draw system (double-pool): 0 and 1 for the two pools, -1
	// for a match that isn't part of either (the cross-pool finals).
	PoolID int

	// WhiteFromPool/BlueFromPool are set instead of White/Blue on a final
	// match whose participant is only known once a sub-pool's standings
	// are computed.
	WhiteFromPool, BlueFromPool *PoolSlot
}

// PoolSlot names a rank within one sub-pool of a multi-pool draw.
type PoolSlot struct {
	PoolID int
	Rank   int
}

// MatchSpecSide mirrors store.Side without importing store.
type MatchSpecSide int

const (
	SideWhite MatchSpecSide = iota
	SideBlue
)

// MatchSpecType mirrors tatami.MatchType without importing tatami, keeping
// draw a leaf package; internal/actions converts between the two.
type MatchSpecType int

const (
	TypeKnockout MatchSpecType = iota
	TypeFinal
)

// MatchResult is what a System needs to know about one already-played match
// to decide subsequent rounds or final standings.
type MatchResult struct {
	Index       int
	White, Blue *ids.ID
	Bye         bool
	WinnerWhite bool // meaningless if Bye or not finished
	Finished    bool
}

// Standing is one entry in a category's final ranking.
type Standing struct {
	Player ids.ID
	Place  int
}

// System draws a category's matches from its player list and, once played,
// derives standings from the results. Implementations are addressed by
// integer tag via Register/ByTag so actions can persist just the tag.
type System interface {
	Name() string
	Tag() int

	// Draw returns the initial match schedule for players, in play order.
	// seed makes player-order shuffling reproducible across replicas;
	// Knockout does not shuffle and keeps the given order as its seeding.
	Draw(players []PlayerSpec, seed int64) []MatchSpec

	// IsFinished reports whether results are complete enough to rank.
	IsFinished(results []MatchResult) bool

	// Results ranks players given the full set of match results. Only
	// valid once IsFinished reports true; may return a partial ranking
	// otherwise.
	Results(results []MatchResult) []Standing
}

var registry = make(map[int]func() System)

// Register adds a draw system constructor under tag. Called from each
// concrete system's init().
func Register(tag int, ctor func() System) {
	registry[tag] = ctor
}

// ByTag constructs the draw system registered under tag, or reports false.
func ByTag(tag int) (System, bool) {
	ctor, ok := registry[tag]
	if !ok {
		return nil, false
	}
	return ctor(), true
}
