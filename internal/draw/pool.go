package draw

import (
	"math/rand"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
)

// PoolTag is the registry tag for the round-robin pool draw system.
const PoolTag = 0

func init() {
	Register(PoolTag, func() System { return NewPool() })
}

// Pool draws a round-robin schedule: every player meets every other player
// exactly once. Standings rank by win count, then by schedule order as the
// tie-break.
type Pool struct{}

// NewPool returns a round-robin draw system.
func NewPool() *Pool { return &Pool{} }

func (p *Pool) Name() string { return "Pool" }
func (p *Pool) Tag() int     { return PoolTag }

// Draw shuffles players with a PRNG seeded by seed, then schedules matches
// using the standard circle method: fix player 0, rotate the rest each
// round. A dummy bye slot is added for odd player counts; each round the
// player paired with it sits out.
func (p *Pool) Draw(players []PlayerSpec, seed int64) []MatchSpec {
	n := len(players)
	if n < 2 {
		return nil
	}
	ids2 := make([]*ids.ID, n)
	for i, p := range players {
		id := p.ID
		ids2[i] = &id
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ids2), func(i, j int) { ids2[i], ids2[j] = ids2[j], ids2[i] })
	bye := n%2 != 0
	if bye {
		ids2 = append(ids2, nil)
		n++
	}

	rounds := n - 1
	half := n / 2
	var out []MatchSpec
	rot := append([]*ids.ID(nil), ids2...)
	for r := 0; r < rounds; r++ {
		for i := 0; i < half; i++ {
			white, blue := rot[i], rot[n-1-i]
			if white == nil || blue == nil {
				continue
			}
			out = append(out, MatchSpec{Type: TypeKnockout, White: white, Blue: blue, NextIndex: -1, PoolID: -1})
		}
		// rotate all but the fixed first element
		fixed := rot[0]
		rest := append([]*ids.ID{}, rot[1:]...)
		rest = append(rest[len(rest)-1:], rest[:len(rest)-1]...)
		rot = append([]*ids.ID{fixed}, rest...)
	}
	return out
}

func (p *Pool) IsFinished(results []MatchResult) bool {
	for _, r := range results {
		if !r.Bye && !r.Finished {
			return false
		}
	}
	return len(results) > 0
}

func (p *Pool) Results(results []MatchResult) []Standing {
	wins := make(map[ids.ID]int)
	seen := make(map[ids.ID]struct{})
	order := []ids.ID{}

	note := func(id *ids.ID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			order = append(order, *id)
		}
	}

	for _, r := range results {
		note(r.White)
		note(r.Blue)
		if r.Bye || !r.Finished {
			continue
		}
		if r.WinnerWhite && r.White != nil {
			wins[*r.White]++
		} else if !r.WinnerWhite && r.Blue != nil {
			wins[*r.Blue]++
		}
	}

	standings := make([]Standing, 0, len(order))
	for _, id := range order {
		standings = append(standings, Standing{Player: id, Place: 0})
	}
	// stable sort by win count descending; ties keep schedule order.
	for i := 1; i < len(standings); i++ {
		for j := i; j > 0 && wins[standings[j].Player] > wins[standings[j-1].Player]; j-- {
			standings[j], standings[j-1] = standings[j-1], standings[j]
		}
	}
	for i := range standings {
		standings[i].Place = i + 1
	}
	return standings
}
