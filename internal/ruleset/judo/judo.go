// Package judo implements the default judo scoring Ruleset: ippon, wazari,
// shido, and hansoku-make. The GoldenScore flag is carried through Score
// unchanged; Score never sets it and applies no sudden-death rule.
package judo

import (
	"time"

	"github.com/svendcsvendsen/judoassistant/internal/ruleset"
)

// Tag is the stable integer tag this ruleset is registered under.
const Tag = 0

func init() {
	ruleset.Register(Tag, func() ruleset.Ruleset { return New() })
}

// maxShidos is the number of shido penalties that force hansoku-make.
const maxShidos = 3

// defaultDuration is the expected wall-clock length of a standard bout,
// returned by ExpectedDuration.
const defaultDuration = 4 * time.Minute

// Ruleset is the standard judo scoring ruleset.
type Ruleset struct{}

// New constructs the standard judo Ruleset.
func New() *Ruleset { return &Ruleset{} }

func (r *Ruleset) Name() string { return "Judo" }
func (r *Ruleset) Tag() int     { return Tag }

func (r *Ruleset) Clone() ruleset.Ruleset { return &Ruleset{} }

func (r *Ruleset) ExpectedDuration() time.Duration { return defaultDuration }

// Score applies ev to snapshot, following the standard scoring progression:
// an ippon, a second wazari, or a third shido (hansoku-make) ends the match
// immediately; pause/resume just toggle status and accumulate duration.
func (r *Ruleset) Score(snapshot ruleset.Snapshot, ev ruleset.Event) ruleset.Outcome {
	out := ruleset.Outcome{
		Status:      snapshot.Status,
		GoldenScore: snapshot.GoldenScore,
		White:       snapshot.White,
		Blue:        snapshot.Blue,
		Duration:    snapshot.Duration,
		ResumeTime:  snapshot.ResumeTime,
	}

	switch ev.Kind {
	case ruleset.EventResume:
		out.Status = ruleset.Unpaused
		out.ResumeTime = ev.At
	case ruleset.EventPause:
		out.Status = ruleset.Paused
		out.Duration = accumulate(snapshot, ev.At)
	case ruleset.EventIppon:
		score := side(&out, ev.Side)
		score.Ippon++
		out.Duration = accumulate(snapshot, ev.At)
		out.Status = ruleset.Finished
	case ruleset.EventWazari:
		score := side(&out, ev.Side)
		score.Wazari++
		out.Duration = accumulate(snapshot, ev.At)
		if score.Wazari >= 2 {
			score.Ippon++ // two wazari compose into an ippon-equivalent win
			out.Status = ruleset.Finished
		}
	case ruleset.EventShido:
		score := side(&out, ev.Side)
		score.Shido++
		out.Duration = accumulate(snapshot, ev.At)
		if score.Shido >= maxShidos {
			score.HansokuMake = true
			out.Status = ruleset.Finished
		}
	case ruleset.EventHansokuMake:
		score := side(&out, ev.Side)
		score.HansokuMake = true
		out.Duration = accumulate(snapshot, ev.At)
		out.Status = ruleset.Finished
	}

	return out
}

// Winner determines the prevailing side: hansoku-make always forces a loss
// for the penalized side; otherwise compare ippon, then wazari, then fewer
// shidos (more accumulated penalties favor the opponent).
func (r *Ruleset) Winner(snapshot ruleset.Snapshot) ruleset.Winner {
	if snapshot.Status != ruleset.Finished {
		return ruleset.NoWinner
	}
	if snapshot.White.HansokuMake {
		return ruleset.WinnerBlue
	}
	if snapshot.Blue.HansokuMake {
		return ruleset.WinnerWhite
	}
	if snapshot.White.Ippon != snapshot.Blue.Ippon {
		if snapshot.White.Ippon > snapshot.Blue.Ippon {
			return ruleset.WinnerWhite
		}
		return ruleset.WinnerBlue
	}
	if snapshot.White.Wazari != snapshot.Blue.Wazari {
		if snapshot.White.Wazari > snapshot.Blue.Wazari {
			return ruleset.WinnerWhite
		}
		return ruleset.WinnerBlue
	}
	if snapshot.White.Shido != snapshot.Blue.Shido {
		if snapshot.White.Shido < snapshot.Blue.Shido {
			return ruleset.WinnerWhite
		}
		return ruleset.WinnerBlue
	}
	return ruleset.NoWinner
}

func side(out *ruleset.Outcome, s ruleset.Side) *ruleset.Score {
	if s == ruleset.White {
		return &out.White
	}
	return &out.Blue
}

func accumulate(snapshot ruleset.Snapshot, at time.Time) time.Duration {
	if snapshot.Status != ruleset.Unpaused || snapshot.ResumeTime.IsZero() {
		return snapshot.Duration
	}
	return snapshot.Duration + at.Sub(snapshot.ResumeTime)
}
