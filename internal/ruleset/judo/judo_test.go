package judo

import (
	"testing"
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ruleset"
)

func TestIpponFinishesMatch(t *testing.T) {
	r := New()
	now := time.Now()
	snap := ruleset.Snapshot{Status: ruleset.Unpaused, ResumeTime: now}

	out := r.Score(snap, ruleset.Event{Kind: ruleset.EventIppon, Side: ruleset.White, At: now.Add(30 * time.Second)})
	if out.Status != ruleset.Finished {
		t.Fatalf("status = %v, want Finished", out.Status)
	}
	if out.White.Ippon != 1 {
		t.Fatalf("white ippon = %d, want 1", out.White.Ippon)
	}
	if w := r.Winner(toSnapshot(out)); w != ruleset.WinnerWhite {
		t.Fatalf("winner = %v, want WinnerWhite", w)
	}
}

func TestTwoWazariComposeIntoWin(t *testing.T) {
	r := New()
	snap := ruleset.Snapshot{Status: ruleset.Unpaused}

	out := r.Score(snap, ruleset.Event{Kind: ruleset.EventWazari, Side: ruleset.Blue})
	if out.Status == ruleset.Finished {
		t.Fatalf("one wazari should not finish the match")
	}
	out = r.Score(toSnapshot(out), ruleset.Event{Kind: ruleset.EventWazari, Side: ruleset.Blue})
	if out.Status != ruleset.Finished {
		t.Fatalf("two wazari should finish the match")
	}
	if out.Blue.Ippon != 1 {
		t.Fatalf("second wazari should compose into an ippon, got %+v", out.Blue)
	}
}

func TestThirdShidoIsHansokuMake(t *testing.T) {
	r := New()
	snap := ruleset.Snapshot{Status: ruleset.Unpaused}
	for i := 0; i < 2; i++ {
		snap = toSnapshot(r.Score(snap, ruleset.Event{Kind: ruleset.EventShido, Side: ruleset.White}))
	}
	out := r.Score(snap, ruleset.Event{Kind: ruleset.EventShido, Side: ruleset.White})
	if !out.White.HansokuMake {
		t.Fatalf("third shido must force hansoku-make")
	}
	if out.Status != ruleset.Finished {
		t.Fatalf("hansoku-make must finish the match")
	}
	if w := r.Winner(toSnapshot(out)); w != ruleset.WinnerBlue {
		t.Fatalf("winner = %v, want WinnerBlue", w)
	}
}

func TestWinnerTieBreaksOnShido(t *testing.T) {
	r := New()
	snap := ruleset.Snapshot{
		Status: ruleset.Finished,
		White:  ruleset.Score{Shido: 1},
		Blue:   ruleset.Score{Shido: 0},
	}
	if w := r.Winner(snap); w != ruleset.WinnerBlue {
		t.Fatalf("winner = %v, want WinnerBlue (fewer shido)", w)
	}
}

func TestPauseAccumulatesDuration(t *testing.T) {
	r := New()
	now := time.Now()
	snap := ruleset.Snapshot{Status: ruleset.Unpaused, ResumeTime: now}
	out := r.Score(snap, ruleset.Event{Kind: ruleset.EventPause, At: now.Add(10 * time.Second)})
	if out.Duration != 10*time.Second {
		t.Fatalf("duration = %v, want 10s", out.Duration)
	}
	if out.Status != ruleset.Paused {
		t.Fatalf("status = %v, want Paused", out.Status)
	}
}

func toSnapshot(o ruleset.Outcome) ruleset.Snapshot {
	return ruleset.Snapshot{
		Status:      o.Status,
		GoldenScore: o.GoldenScore,
		White:       o.White,
		Blue:        o.Blue,
		Duration:    o.Duration,
		ResumeTime:  o.ResumeTime,
	}
}
