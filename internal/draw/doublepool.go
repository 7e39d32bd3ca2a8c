package draw

import "github.com/svendcsvendsen/judoassistant/internal/ids"

// DoublePoolTag is the registry tag for the double-pool draw system.
const DoublePoolTag = 2

func init() {
	Register(DoublePoolTag, func() System { return NewDoublePool() })
}

// DoublePool splits players into two round-robin pools, then crosses them
// into a single championship playoff: semi(A1, B2), semi(B1, A2), and a
// final between the two semi-final winners, the common format for larger
// judo weight categories. internal/actions persists which matches fell
// into pool A vs pool B as store.Category.PoolSplit, since that membership
// can't be recovered from the ordered match list alone once matches start
// finishing out of order.
type DoublePool struct {
	pool Pool
}

// NewDoublePool returns a double-pool draw system.
func NewDoublePool() *DoublePool { return &DoublePool{} }

func (d *DoublePool) Name() string { return "Double Pool" }
func (d *DoublePool) Tag() int     { return DoublePoolTag }

// split divides players alternately between pool A and pool B so seeding is
// spread evenly between the two sub-pools.
func split(players []PlayerSpec) (a, b []PlayerSpec) {
	for i, p := range players {
		if i%2 == 0 {
			a = append(a, p)
		} else {
			b = append(b, p)
		}
	}
	return a, b
}

func (d *DoublePool) Draw(players []PlayerSpec, seed int64) []MatchSpec {
	if len(players) < 2 {
		return nil
	}
	poolA, poolB := split(players)

	var out []MatchSpec
	for _, m := range d.pool.Draw(poolA, seed) {
		m.PoolID = 0
		out = append(out, m)
	}
	for _, m := range d.pool.Draw(poolB, seed+1) {
		m.PoolID = 1
		out = append(out, m)
	}

	semiAIdx := len(out)
	semiBIdx := semiAIdx + 1
	finalIdx := semiBIdx + 1

	semiA := MatchSpec{
		Type:          TypeFinal,
		Title:         "Semi-Final",
		NextIndex:     finalIdx,
		NextSide:      SideWhite,
		PoolID:        -1,
		WhiteFromPool: &PoolSlot{PoolID: 0, Rank: 1},
		BlueFromPool:  &PoolSlot{PoolID: 1, Rank: 2},
	}
	semiB := MatchSpec{
		Type:          TypeFinal,
		Title:         "Semi-Final",
		NextIndex:     finalIdx,
		NextSide:      SideBlue,
		PoolID:        -1,
		WhiteFromPool: &PoolSlot{PoolID: 1, Rank: 1},
		BlueFromPool:  &PoolSlot{PoolID: 0, Rank: 2},
	}
	final := MatchSpec{
		Type:      TypeFinal,
		Title:     "Final",
		NextIndex: -1,
		PoolID:    -1,
	}
	out = append(out, semiA, semiB, final)
	return out
}

func (d *DoublePool) IsFinished(results []MatchResult) bool {
	for _, r := range results {
		if !r.Bye && !r.Finished {
			return false
		}
	}
	return len(results) > 0
}

// Results ranks the final's winner/loser 1st/2nd; both semi-final losers
// share joint 3rd, the standard judo placement when no bronze match is
// played. It relies on the two semis and the final being the last three
// entries in results, matching the order Draw appends them in.
func (d *DoublePool) Results(results []MatchResult) []Standing {
	if len(results) < 3 {
		return nil
	}
	semiA := results[len(results)-3]
	semiB := results[len(results)-2]
	final := results[len(results)-1]

	var out []Standing
	if final.Finished {
		var winner, loser *ids.ID
		if final.WinnerWhite {
			winner, loser = final.White, final.Blue
		} else {
			winner, loser = final.Blue, final.White
		}
		if winner != nil {
			out = append(out, Standing{Player: *winner, Place: 1})
		}
		if loser != nil {
			out = append(out, Standing{Player: *loser, Place: 2})
		}
	}
	for _, semi := range [2]MatchResult{semiA, semiB} {
		if !semi.Finished {
			continue
		}
		loser := semi.White
		if semi.WinnerWhite {
			loser = semi.Blue
		}
		if loser != nil {
			out = append(out, Standing{Player: *loser, Place: 3})
		}
	}
	return out
}
