package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/svendcsvendsen/judoassistant/internal/tatami"
)

type recordingListener struct {
	players    [][]uuid.UUID
	categories [][]uuid.UUID
	matches    []uuid.UUID
	resets     []uuid.UUID
}

func (l *recordingListener) ChangePlayers(ids []uuid.UUID)            { l.players = append(l.players, ids) }
func (l *recordingListener) ChangeCategories(ids []uuid.UUID)         { l.categories = append(l.categories, ids) }
func (l *recordingListener) ChangeMatches(cat uuid.UUID, ids []uuid.UUID) { l.matches = append(l.matches, ids...) }
func (l *recordingListener) ChangeTatamis(ids []uuid.UUID)            {}
func (l *recordingListener) ResetCategoryResults(cat uuid.UUID)       { l.resets = append(l.resets, cat) }

func TestAddAndErasePlayer(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	l := &recordingListener{}
	tr.Subscribe(l)

	pid := uuid.New()
	if err := tr.AddPlayer(pid, PlayerFields{FirstName: "Ada"}); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if tr.Player(pid) == nil {
		t.Fatal("player not found after add")
	}
	if len(l.players) != 1 || len(l.players[0]) != 1 {
		t.Fatalf("expected one batched notification of one player, got %+v", l.players)
	}

	if err := tr.ErasePlayer(pid); err != nil {
		t.Fatalf("ErasePlayer: %v", err)
	}
	if tr.Player(pid) != nil {
		t.Fatal("player still present after erase")
	}
}

func TestErasePlayerUnknownIsPreconditionLost(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	err := tr.ErasePlayer(uuid.New())
	if !IsPreconditionLost(err) {
		t.Fatalf("expected PreconditionLostError, got %v", err)
	}
}

func TestCategoryMembershipRoundTrip(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	pid := uuid.New()
	cid := uuid.New()
	_ = tr.AddPlayer(pid, PlayerFields{FirstName: "Ada"})
	_ = tr.AddCategory(cid, "-70kg", 0, 0)

	if err := tr.AddPlayerToCategory(pid, cid); err != nil {
		t.Fatalf("add to category: %v", err)
	}
	if !tr.Category(cid).HasPlayer(pid) {
		t.Fatal("category missing player")
	}
	if _, ok := tr.Player(pid).Categories[cid]; !ok {
		t.Fatal("player missing category back-reference")
	}

	if err := tr.ErasePlayerFromCategory(pid, cid); err != nil {
		t.Fatalf("erase from category: %v", err)
	}
	if tr.Category(cid).HasPlayer(pid) {
		t.Fatal("category still has player after erase")
	}
}

func TestResetMatchesSwallowsNestedNotificationsAndFiresReset(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	l := &recordingListener{}
	tr.Subscribe(l)

	cid := uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	_ = tr.AddCategory(cid, "-70kg", 0, 0)
	_ = tr.AddPlayer(p1, PlayerFields{FirstName: "A"})
	_ = tr.AddPlayer(p2, PlayerFields{FirstName: "B"})

	if err := tr.BeginResetMatches(cid); err != nil {
		t.Fatalf("begin reset: %v", err)
	}
	m := &Match{ID: uuid.New(), Category: cid, Type: Knockout, WhitePlayer: &p1, BluePlayer: &p2}
	if err := tr.AddMatch(cid, 0, m); err != nil {
		t.Fatalf("add match: %v", err)
	}
	tr.EndResetMatches(cid)

	if len(l.matches) != 0 {
		t.Fatalf("expected nested ChangeMatches to be swallowed, got %v", l.matches)
	}
	if len(l.resets) != 1 || l.resets[0] != cid {
		t.Fatalf("expected one ResetCategoryResults for %s, got %v", cid, l.resets)
	}
	if _, ok := tr.Player(p1).Matches[MatchRef{Category: cid, Match: m.ID}]; !ok {
		t.Fatal("player not linked to new match")
	}
}

func TestApplyMatchEventUpdatesCategoryCounts(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	cid := uuid.New()
	_ = tr.AddCategory(cid, "-70kg", 0, 0)
	mid := uuid.New()
	m := &Match{ID: mid, Category: cid, Type: Knockout}
	_ = tr.AddMatch(cid, 0, m)

	if tr.Category(cid).Counts[Knockout].NotStarted != 1 {
		t.Fatalf("expected 1 not-started match")
	}

	ev := MatchEvent{Kind: EventIppon, Side: White, At: time.Unix(0, 0)}
	white := Score{Ippon: 1}
	if err := tr.ApplyMatchEvent(cid, mid, ev, Finished, white, Score{}, 0, time.Time{}, false); err != nil {
		t.Fatalf("apply event: %v", err)
	}
	if tr.Category(cid).Counts[Knockout].NotStarted != 0 {
		t.Fatalf("expected not-started count to drop")
	}
	if tr.Category(cid).Counts[Knockout].Finished != 1 {
		t.Fatalf("expected finished count to rise")
	}
	if got := tr.Match(cid, mid).WhiteScore.Ippon; got != 1 {
		t.Fatalf("white ippon = %d, want 1", got)
	}
}

func TestSetTatamiLocationMovesBlockBetweenMats(t *testing.T) {
	tr := NewTournament(uuid.New(), "Test Open", "salt")
	cid := uuid.New()
	_ = tr.AddCategory(cid, "-70kg", 0, 0)

	th1 := tr.AppendTatami(uuid.New())
	th2 := tr.AppendTatami(uuid.New())

	loc1 := tatami.BlockLocation{Tatami: th1, ConcurrentGroup: tatami.Handle{ID: uuid.New()}, SequentialGroup: tatami.Handle{ID: uuid.New()}, Index: 0}
	if err := tr.SetTatamiLocation(cid, Knockout, loc1); err != nil {
		t.Fatalf("set location: %v", err)
	}
	if tr.Category(cid).Locations[Knockout].Tatami.ID != th1.ID {
		t.Fatal("category not placed on first tatami")
	}

	loc2 := tatami.BlockLocation{Tatami: th2, ConcurrentGroup: tatami.Handle{ID: uuid.New()}, SequentialGroup: tatami.Handle{ID: uuid.New()}, Index: 0}
	if err := tr.SetTatamiLocation(cid, Knockout, loc2); err != nil {
		t.Fatalf("move location: %v", err)
	}
	if tr.Category(cid).Locations[Knockout].Tatami.ID != th2.ID {
		t.Fatal("category not relocated to second tatami")
	}
}
