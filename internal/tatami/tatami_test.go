package tatami

import (
	"testing"

	"github.com/google/uuid"
)

func TestPositionManagerReinsertsAtClampedIndex(t *testing.T) {
	pm := NewPositionManager[string]()
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	pm.Insert(a, 0, "a")
	pm.Insert(b, 1, "b")
	pm.Insert(c, 2, "c")

	pm.Erase(b)
	if pm.Size() != 2 {
		t.Fatalf("size after erase = %d, want 2", pm.Size())
	}

	// Undo: reinsert b at its remembered index 1.
	got := pm.Get(Handle{ID: b, Index: 1})
	if got != "" {
		t.Fatalf("reinserted value should be zero value, got %q", got)
	}
	pm.Set(b, "b")
	if pm.IndexOf(b) != 1 {
		t.Fatalf("b reinserted at index %d, want 1", pm.IndexOf(b))
	}
}

func TestPositionManagerClampsOutOfRangeIndex(t *testing.T) {
	pm := NewPositionManager[int]()
	a := uuid.New()
	pm.Get(Handle{ID: a, Index: 99})
	if pm.Size() != 1 {
		t.Fatalf("size = %d, want 1", pm.Size())
	}
	if pm.IndexOf(a) != 0 {
		t.Fatalf("clamped index = %d, want 0", pm.IndexOf(a))
	}
}

func TestMoveBlockCreatesAndDestroysGroups(t *testing.T) {
	l := NewList()
	tatamiID := uuid.New()
	cgID := uuid.New()
	sgID := uuid.New()
	th := l.AppendTatami(tatamiID)

	block := Block{Category: uuid.New(), Type: Final}
	to := BlockLocation{Tatami: th, ConcurrentGroup: Handle{ID: cgID}, SequentialGroup: Handle{ID: sgID}, Index: 0}

	if err := l.MoveBlock(block, nil, &to); err != nil {
		t.Fatalf("move: %v", err)
	}
	if l.ConcurrentGroupSize(th, to.ConcurrentGroup) != 1 {
		t.Fatalf("expected 1 sequential group")
	}

	if err := l.MoveBlock(block, &to, nil); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if l.ConcurrentGroupSize(th, to.ConcurrentGroup) != 0 {
		t.Fatalf("expected concurrent group destroyed")
	}
}

func TestRecomputeBlockAggregatesStatus(t *testing.T) {
	l := NewList()
	th := l.AppendTatami(uuid.New())
	cgH := Handle{ID: uuid.New()}
	sgH := Handle{ID: uuid.New()}

	block1 := Block{Category: uuid.New(), Type: Knockout}
	block2 := Block{Category: uuid.New(), Type: Final}

	loc1 := BlockLocation{Tatami: th, ConcurrentGroup: cgH, SequentialGroup: sgH, Index: 0}
	loc2 := BlockLocation{Tatami: th, ConcurrentGroup: cgH, SequentialGroup: sgH, Index: 1}

	_ = l.MoveBlock(block1, nil, &loc1)
	_ = l.MoveBlock(block2, nil, &loc2)

	l.RecomputeBlock(loc1, func(b Block) Status {
		if b == block1 {
			return Status{Finished: 1}
		}
		return Status{NotStarted: 1}
	})

	t1 := l.Tatami(th)
	cg := t1.Groups.Get(cgH)
	if cg.Status.Finished != 1 || cg.Status.NotStarted != 1 {
		t.Fatalf("aggregated status = %+v", cg.Status)
	}
}
