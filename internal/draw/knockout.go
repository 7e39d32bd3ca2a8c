package draw

import (
	"fmt"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
)

// KnockoutTag is the registry tag for the single-elimination draw system.
const KnockoutTag = 1

func init() {
	Register(KnockoutTag, func() System { return NewKnockout() })
}

// Knockout draws a single-elimination bracket. Seeding follows the standard
// tournament-bracket pattern (seed 1 and 2 can only meet in the final, seed
// 1 and 3/4 only from the semi-final on) so higher seeds meet later;
// unfilled slots past the player count become byes which are resolved
// immediately in round one.
type Knockout struct{}

// NewKnockout returns a single-elimination draw system.
func NewKnockout() *Knockout { return &Knockout{} }

func (k *Knockout) Name() string { return "Knockout" }
func (k *Knockout) Tag() int     { return KnockoutTag }

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// seedOrder returns the standard bracket seeding permutation of 1..size
// (size must be a power of two): the order in which seed numbers should be
// placed left-to-right across the first round so higher seeds are kept
// apart as long as possible.
func seedOrder(size int) []int {
	order := []int{1, 2}
	for len(order) < size {
		m := len(order)*2 + 1
		next := make([]int, 0, len(order)*2)
		for _, s := range order {
			next = append(next, s, m-s)
		}
		order = next
	}
	return order
}

// matchTitle names a bracket match by how many rounds separate it from the
// final.
func matchTitle(roundsFromFinal int) string {
	switch roundsFromFinal {
	case 0:
		return "Final"
	case 1:
		return "Semi-Final"
	case 2:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round of %d", 1<<uint(roundsFromFinal+1))
	}
}

// Draw builds the complete bracket tree up front: round one holds the seeded
// players (byes resolved immediately as a finished, player-advancing match),
// every later round is an empty placeholder match whose NextIndex points
// forward, chaining up to a single final at the end of the slice.
func (k *Knockout) Draw(players []PlayerSpec, seed int64) []MatchSpec {
	n := len(players)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []MatchSpec{{Type: TypeFinal, White: &players[0].ID, Bye: true, Title: "Final", NextIndex: -1, PoolID: -1}}
	}

	size := nextPowerOfTwo(n)
	order := seedOrder(size)
	seedToPlayer := make([]*ids.ID, size+1)
	for i, p := range players {
		id := p.ID
		seedToPlayer[i+1] = &id
	}

	rounds := 0
	for s := size; s > 1; s /= 2 {
		rounds++
	}

	// roundStart[r] is the index in `out` of round r's first match (r is
	// 0-based counting down from the first round).
	roundSizes := make([]int, rounds)
	roundStart := make([]int, rounds)
	total := 0
	matchesInRound := size / 2
	for r := 0; r < rounds; r++ {
		roundSizes[r] = matchesInRound
		roundStart[r] = total
		total += matchesInRound
		matchesInRound /= 2
	}

	out := make([]MatchSpec, total)
	for r := 0; r < rounds; r++ {
		roundsFromFinal := rounds - 1 - r
		for i := 0; i < roundSizes[r]; i++ {
			idx := roundStart[r] + i
			nextIdx := -1
			nextSide := SideWhite
			if r+1 < rounds {
				nextIdx = roundStart[r+1] + i/2
				if i%2 == 0 {
					nextSide = SideWhite
				} else {
					nextSide = SideBlue
				}
			}
			mtype := TypeKnockout
			if r == rounds-1 {
				mtype = TypeFinal
			}
			out[idx] = MatchSpec{
				Type:      mtype,
				Title:     matchTitle(roundsFromFinal),
				NextIndex: nextIdx,
				NextSide:  nextSide,
				PoolID:    -1,
			}
		}
	}

	for i := 0; i < roundSizes[0]; i++ {
		white := seedToPlayer[order[2*i]]
		blue := seedToPlayer[order[2*i+1]]
		idx := roundStart[0] + i
		out[idx].White = white
		out[idx].Blue = blue
		out[idx].Bye = white == nil || blue == nil
	}

	return out
}

func (k *Knockout) IsFinished(results []MatchResult) bool {
	if len(results) == 0 {
		return false
	}
	last := results[len(results)-1]
	return last.Finished || last.Bye
}

// Results walks the bracket from the final downward: the final contributes
// places 1 and 2 (winner, loser); each earlier round is a layer of 2^k
// matches (k rounds back from the final) and every real, finished loser in
// that layer shares joint place 2^k+1, in insertion order. Byes and
// unfinished matches contribute nothing, per spec.
func (k *Knockout) Results(results []MatchResult) []Standing {
	if len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	if !last.Finished && !last.Bye {
		return nil
	}

	size := len(results) + 1
	rounds := 0
	for s := size; s > 1; s /= 2 {
		rounds++
	}
	roundSizes := make([]int, rounds)
	roundStart := make([]int, rounds)
	start := 0
	matchesInRound := size / 2
	for r := 0; r < rounds; r++ {
		roundSizes[r] = matchesInRound
		roundStart[r] = start
		start += matchesInRound
		matchesInRound /= 2
	}

	final := results[roundStart[rounds-1]]
	var first, second *ids.ID
	if final.WinnerWhite {
		first, second = final.White, final.Blue
	} else {
		first, second = final.Blue, final.White
	}
	var out []Standing
	if first != nil {
		out = append(out, Standing{Player: *first, Place: 1})
	}
	if second != nil {
		out = append(out, Standing{Player: *second, Place: 2})
	}

	for r := rounds - 2; r >= 0; r-- {
		k := rounds - 1 - r
		place := (1 << uint(k)) + 1
		for i := 0; i < roundSizes[r]; i++ {
			res := results[roundStart[r]+i]
			if res.Bye || !res.Finished {
				continue
			}
			var loser *ids.ID
			if res.WinnerWhite {
				loser = res.Blue
			} else {
				loser = res.White
			}
			if loser != nil {
				out = append(out, Standing{Player: *loser, Place: place})
			}
		}
	}
	return out
}
