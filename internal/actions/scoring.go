package actions

import (
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/ruleset"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// matchEvent is the shared apply/undo machinery for every scoring action:
// it loads the category's ruleset, rebuilds the pre-event snapshot, scores
// the event, writes the result back, and resolves any double-pool finals
// the outcome may have unblocked.
type matchEvent struct {
	CategoryID ids.ID
	MatchID    ids.ID
	Kind       store.MatchEventKind
	Side       store.Side
	At         time.Time

	applied    bool
	lost       bool
	priorLen   int
	priorState ruleset.Snapshot

	// children are the SetMatchPlayer actions this event's finish/un-finish
	// transition queued to wire (or unwire) the winner into the bracket's
	// next slot. Applied in order right after the event itself; undone in
	// reverse before the event's own state is restored.
	children []Action
}

func (e *matchEvent) apply(t *store.Tournament) error {
	cat := t.Category(e.CategoryID)
	if cat == nil {
		e.applied, e.lost = true, true
		return nil
	}
	m := t.Match(e.CategoryID, e.MatchID)
	if m == nil {
		e.applied, e.lost = true, true
		return nil
	}
	rs, ok := ruleset.ByTag(cat.RulesetTag)
	if !ok {
		return store.NewInvariantViolation("category %s has unknown ruleset tag %d", e.CategoryID, cat.RulesetTag)
	}

	before := toSnapshot(m)
	e.priorState = before
	e.priorLen = len(m.Events)
	wasFinished := before.Status == ruleset.Finished

	out := rs.Score(before, ruleset.Event{Kind: ruleset.EventKind(e.Kind), Side: ruleset.Side(e.Side), At: e.At})

	status := store.MatchStatus(out.Status)
	white := store.Score{Ippon: out.White.Ippon, Wazari: out.White.Wazari, Shido: out.White.Shido, HansokuMake: out.White.HansokuMake}
	blue := store.Score{Ippon: out.Blue.Ippon, Wazari: out.Blue.Wazari, Shido: out.Blue.Shido, HansokuMake: out.Blue.HansokuMake}

	ev := store.MatchEvent{Kind: e.Kind, Side: e.Side, At: e.At}
	if err := t.ApplyMatchEvent(e.CategoryID, e.MatchID, ev, status, white, blue, out.Duration, out.ResumeTime, out.GoldenScore); err != nil {
		return err
	}

	nowFinished := status == store.Finished
	if nowFinished {
		if err := ResolvePoolFinals(t, e.CategoryID); err != nil {
			return err
		}
	}

	if nowFinished != wasFinished {
		children, err := advanceBracket(t, rs, m, nowFinished)
		if err != nil {
			return err
		}
		e.children = children
	}

	e.applied = true
	return nil
}

func (e *matchEvent) undo(t *store.Tournament) error {
	if e.lost {
		return nil
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if err := e.children[i].Undo(t); err != nil {
			return err
		}
	}

	before := e.priorState
	status := store.MatchStatus(before.Status)
	white := store.Score{Ippon: before.White.Ippon, Wazari: before.White.Wazari, Shido: before.White.Shido, HansokuMake: before.White.HansokuMake}
	blue := store.Score{Ippon: before.Blue.Ippon, Wazari: before.Blue.Wazari, Shido: before.Blue.Shido, HansokuMake: before.Blue.HansokuMake}

	// Re-apply the pre-event state as a synthetic event, then trim the
	// journal back so the undone event is actually gone, not just
	// superseded.
	ev := store.MatchEvent{Kind: e.Kind, Side: e.Side, At: e.At}
	if err := t.ApplyMatchEvent(e.CategoryID, e.MatchID, ev, status, white, blue, before.Duration, before.ResumeTime, before.GoldenScore); err != nil {
		if store.IsPreconditionLost(err) {
			return nil
		}
		return err
	}
	return t.TrimMatchEvents(e.CategoryID, e.MatchID, e.priorLen)
}

// advanceBracket feeds a match's finish/un-finish transition forward into
// the next round, the live-scoring counterpart to the bye fast-path
// DrawCategory.Apply already applies at draw time: NextMatch/NextSide are
// fixed once, at draw time, so advancing a winner (or retracting one, on a
// ResumeMatch that reopens an already-finished match) is a single
// SetMatchPlayer rather than a walk over the whole bracket. It returns the
// child actions applied, already applied, for the caller to attach to the
// scoring action for undo.
func advanceBracket(t *store.Tournament, rs ruleset.Ruleset, m *store.Match, finished bool) ([]Action, error) {
	if m.NextMatch == nil || m.Bye {
		return nil, nil
	}

	playerID := ids.Nil
	if finished {
		if m.WhitePlayer == nil || m.BluePlayer == nil {
			return nil, nil
		}
		switch rs.Winner(toSnapshot(m)) {
		case ruleset.WinnerWhite:
			playerID = *m.WhitePlayer
		case ruleset.WinnerBlue:
			playerID = *m.BluePlayer
		default:
			return nil, nil
		}
	}

	child := &SetMatchPlayer{
		CategoryID: m.Category,
		MatchID:    *m.NextMatch,
		Side:       m.NextSide,
		PlayerID:   playerID,
	}
	if err := child.Apply(t); err != nil {
		return nil, err
	}
	return []Action{child}, nil
}

func toSnapshot(m *store.Match) ruleset.Snapshot {
	return ruleset.Snapshot{
		Status:      ruleset.Status(m.Status),
		GoldenScore: m.GoldenScore,
		White:       ruleset.Score{Ippon: m.WhiteScore.Ippon, Wazari: m.WhiteScore.Wazari, Shido: m.WhiteScore.Shido, HansokuMake: m.WhiteScore.HansokuMake},
		Blue:        ruleset.Score{Ippon: m.BlueScore.Ippon, Wazari: m.BlueScore.Wazari, Shido: m.BlueScore.Shido, HansokuMake: m.BlueScore.HansokuMake},
		Duration:    m.Duration,
		ResumeTime:  m.ResumeTime,
	}
}

// ResumeMatch starts or resumes a match's clock.
type ResumeMatch struct {
	CategoryID, MatchID ids.ID
	At                  time.Time
	matchEvent
}

func (a *ResumeMatch) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventResume, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *ResumeMatch) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *ResumeMatch) FreshClone() Action  { return &ResumeMatch{CategoryID: a.CategoryID, MatchID: a.MatchID, At: a.At} }
func (a *ResumeMatch) Description() string { return "Resume match" }
func (a *ResumeMatch) Tag() string         { return "ResumeMatch" }

// PauseMatch stops a match's clock, accumulating elapsed time.
type PauseMatch struct {
	CategoryID, MatchID ids.ID
	At                  time.Time
	matchEvent
}

func (a *PauseMatch) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventPause, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *PauseMatch) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *PauseMatch) FreshClone() Action  { return &PauseMatch{CategoryID: a.CategoryID, MatchID: a.MatchID, At: a.At} }
func (a *PauseMatch) Description() string { return "Pause match" }
func (a *PauseMatch) Tag() string         { return "PauseMatch" }

// AwardIppon scores an ippon for the given side, finishing the match.
type AwardIppon struct {
	CategoryID, MatchID ids.ID
	Side                store.Side
	At                  time.Time
	matchEvent
}

func (a *AwardIppon) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventIppon, Side: a.Side, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *AwardIppon) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *AwardIppon) FreshClone() Action {
	return &AwardIppon{CategoryID: a.CategoryID, MatchID: a.MatchID, Side: a.Side, At: a.At}
}
func (a *AwardIppon) Description() string { return "Award ippon" }
func (a *AwardIppon) Tag() string         { return "AwardIppon" }

// AwardWazari scores a wazari; two compose into an ippon.
type AwardWazari struct {
	CategoryID, MatchID ids.ID
	Side                store.Side
	At                  time.Time
	matchEvent
}

func (a *AwardWazari) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventWazari, Side: a.Side, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *AwardWazari) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *AwardWazari) FreshClone() Action {
	return &AwardWazari{CategoryID: a.CategoryID, MatchID: a.MatchID, Side: a.Side, At: a.At}
}
func (a *AwardWazari) Description() string { return "Award wazari" }
func (a *AwardWazari) Tag() string         { return "AwardWazari" }

// AwardShido scores a penalty; accumulating to the ruleset's limit is a
// hansoku-make loss.
type AwardShido struct {
	CategoryID, MatchID ids.ID
	Side                store.Side
	At                  time.Time
	matchEvent
}

func (a *AwardShido) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventShido, Side: a.Side, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *AwardShido) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *AwardShido) FreshClone() Action {
	return &AwardShido{CategoryID: a.CategoryID, MatchID: a.MatchID, Side: a.Side, At: a.At}
}
func (a *AwardShido) Description() string { return "Award shido" }
func (a *AwardShido) Tag() string         { return "AwardShido" }

// AwardHansokuMake directly disqualifies a side, finishing the match.
type AwardHansokuMake struct {
	CategoryID, MatchID ids.ID
	Side                store.Side
	At                  time.Time
	matchEvent
}

func (a *AwardHansokuMake) Apply(t *store.Tournament) error {
	a.matchEvent = matchEvent{CategoryID: a.CategoryID, MatchID: a.MatchID, Kind: store.EventHansokuMake, Side: a.Side, At: a.At}
	return a.matchEvent.apply(t)
}
func (a *AwardHansokuMake) Undo(t *store.Tournament) error {
	if !a.applied {
		return notApplied(a.Tag())
	}
	return a.matchEvent.undo(t)
}
func (a *AwardHansokuMake) FreshClone() Action {
	return &AwardHansokuMake{CategoryID: a.CategoryID, MatchID: a.MatchID, Side: a.Side, At: a.At}
}
func (a *AwardHansokuMake) Description() string { return "Award hansoku-make" }
func (a *AwardHansokuMake) Tag() string         { return "AwardHansokuMake" }
