package draw

import (
	"testing"

	"github.com/google/uuid"
)

func specs(n int) []PlayerSpec {
	out := make([]PlayerSpec, n)
	for i := range out {
		out[i] = PlayerSpec{ID: uuid.New()}
	}
	return out
}

func TestPoolDrawRoundRobinMatchCount(t *testing.T) {
	p := NewPool()
	matches := p.Draw(specs(4), 1)
	// 4 players round robin: 3 rounds * 2 matches = 6 matches.
	if len(matches) != 6 {
		t.Fatalf("match count = %d, want 6", len(matches))
	}
}

func TestPoolDrawOddPlayersSkipsByeSlot(t *testing.T) {
	p := NewPool()
	matches := p.Draw(specs(3), 1)
	for _, m := range matches {
		if m.White == nil || m.Blue == nil {
			t.Fatalf("found match with nil side: %+v", m)
		}
	}
}

func TestKnockoutDrawByesInRoundOne(t *testing.T) {
	k := NewKnockout()
	matches := k.Draw(specs(5), 1)
	// bracket size 8, round one has 4 matches, 3 byes.
	byes := 0
	for _, m := range matches[:4] {
		if m.Bye {
			byes++
		}
	}
	if byes != 3 {
		t.Fatalf("byes = %d, want 3", byes)
	}
}

func TestKnockoutFinalIsLastEntry(t *testing.T) {
	k := NewKnockout()
	matches := k.Draw(specs(4), 1)
	last := matches[len(matches)-1]
	if last.Type != TypeFinal || last.NextIndex != -1 {
		t.Fatalf("expected final match last, got %+v", last)
	}
}

func TestKnockoutChainsRoundsViaNextIndex(t *testing.T) {
	k := NewKnockout()
	matches := k.Draw(specs(4), 1)
	// 4 players: round one has 2 matches (indices 0,1), final at index 2.
	if matches[0].NextIndex != 2 || matches[1].NextIndex != 2 {
		t.Fatalf("expected both semifinal matches to point at final, got %+v", matches)
	}
	if matches[0].NextSide != SideWhite || matches[1].NextSide != SideBlue {
		t.Fatalf("expected alternating sides into final, got %+v", matches)
	}
}

func TestDoublePoolProducesTwoSemisAndAFinal(t *testing.T) {
	d := NewDoublePool()
	matches := d.Draw(specs(8), 1)
	semiA := matches[len(matches)-3]
	semiB := matches[len(matches)-2]
	final := matches[len(matches)-1]
	if semiA.Title != "Semi-Final" || semiB.Title != "Semi-Final" || final.Title != "Final" {
		t.Fatalf("unexpected titles: %q, %q, %q", semiA.Title, semiB.Title, final.Title)
	}
	// semi(A1, B2) and semi(B1, A2): each semi crosses pools.
	if semiA.WhiteFromPool.PoolID != 0 || semiA.WhiteFromPool.Rank != 1 {
		t.Fatalf("expected semi A to start from pool A rank 1, got %+v", semiA.WhiteFromPool)
	}
	if semiA.BlueFromPool.PoolID != 1 || semiA.BlueFromPool.Rank != 2 {
		t.Fatalf("expected semi A's blue side from pool B rank 2, got %+v", semiA.BlueFromPool)
	}
	if semiB.WhiteFromPool.PoolID != 1 || semiB.BlueFromPool.PoolID != 0 {
		t.Fatalf("expected semi B to cross pools the other way, got %+v", semiB)
	}
	// both semis chain their winner into the final.
	finalIdx := len(matches) - 1
	if semiA.NextIndex != finalIdx || semiB.NextIndex != finalIdx {
		t.Fatalf("expected both semis to point at the final, got %+v %+v", semiA, semiB)
	}
	if semiA.NextSide != SideWhite || semiB.NextSide != SideBlue {
		t.Fatalf("expected alternating sides into the final, got %+v %+v", semiA, semiB)
	}
}
