// Package integration drives a real master/participant pair over an actual
// websocket connection (not the in-memory Transport double
// internal/replication's own tests use), the way the teacher's
// Server/tests/integration harness drives a full Nakama match rather than a
// single package in isolation.
package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
	"github.com/svendcsvendsen/judoassistant/internal/draw"
	"github.com/svendcsvendsen/judoassistant/internal/manager"
	"github.com/svendcsvendsen/judoassistant/internal/replication"
	"github.com/svendcsvendsen/judoassistant/internal/ruleset/judo"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// newMasterServer starts an httptest.Server upgrading every request on /ws
// into a replication session for tr, and returns its ws:// base URL.
func newMasterServer(t *testing.T, id uuid.UUID, tr *manager.Tournament) (string, func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		tx, err := replication.Upgrade(w, r)
		if err != nil {
			return
		}
		defer tx.Close()
		master := replication.NewMaster(id, tr, nil)
		_ = master.Serve(r.Context(), tx)
	})
	srv := httptest.NewServer(mux)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return url, srv.Close
}

// TestFullKnockoutPlaythroughOverReplication plays a 4-player knockout
// category to completion entirely through a participant's dispatched
// actions, as the real cmd/master / cmd/participant wiring would see it,
// and checks the master and participant replicas converge.
func TestFullKnockoutPlaythroughOverReplication(t *testing.T) {
	tournamentID := uuid.New()
	st := store.NewTournament(tournamentID, "Integration Open", "salt")
	tr := manager.New(st, nil)
	defer tr.Close()

	url, closeServer := newMasterServer(t, tournamentID, tr)
	defer closeServer()

	tx, err := replication.Dial(url)
	require.NoError(t, err)
	defer tx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := replication.Join(ctx, tx, "referee-tablet", nil)
	require.NoError(t, err)
	defer p.Close()

	runDone := make(chan error, 1)
	go func() { runDone <- p.Run(ctx) }()

	catID := uuid.New()
	require.NoError(t, p.EncodeDispatch(&actions.AddCategory{
		ID: catID, Name: "-90kg", RulesetTag: judo.Tag, DrawTag: draw.KnockoutTag,
	}))

	players := make([]uuid.UUID, 4)
	for i := range players {
		players[i] = uuid.New()
		require.NoError(t, p.EncodeDispatch(&actions.AddPlayer{
			ID: players[i], Fields: store.PlayerFields{FirstName: "Player"},
		}))
	}
	require.NoError(t, p.EncodeDispatch(&actions.AddPlayersToCategory{PlayerIDs: players, CategoryID: catID}))
	require.NoError(t, p.EncodeDispatch(&actions.DrawCategory{CategoryID: catID, PlayerOrder: players, Seed: 1}))

	var matchIDs []uuid.UUID
	require.Eventually(t, func() bool {
		var ok bool
		_ = p.Tournament().View(ctx, func(s *store.Tournament) {
			cat := s.Category(catID)
			if cat == nil || len(cat.Matches) != 3 {
				return
			}
			matchIDs = append([]uuid.UUID(nil), cat.Matches...)
			ok = true
		})
		return ok
	}, time.Second, 10*time.Millisecond, "draw never reached the participant")

	// Two semi-finals, then the final: score the White side each time so
	// the same seed-1 player keeps advancing into the final.
	require.NoError(t, p.EncodeDispatch(&actions.AwardIppon{CategoryID: catID, MatchID: matchIDs[0], Side: store.White}))
	require.NoError(t, p.EncodeDispatch(&actions.AwardIppon{CategoryID: catID, MatchID: matchIDs[1], Side: store.White}))

	var finalID uuid.UUID
	require.Eventually(t, func() bool {
		var ready bool
		_ = p.Tournament().View(ctx, func(s *store.Tournament) {
			m := s.Match(catID, matchIDs[2])
			if m != nil && m.WhitePlayer != nil && m.BluePlayer != nil {
				finalID = m.ID
				ready = true
			}
		})
		return ready
	}, time.Second, 10*time.Millisecond, "final never received both semi-final winners")

	require.NoError(t, p.EncodeDispatch(&actions.AwardIppon{CategoryID: catID, MatchID: finalID, Side: store.White}))

	require.Eventually(t, func() bool {
		var finished bool
		_ = tr.View(ctx, func(s *store.Tournament) {
			m := s.Match(catID, finalID)
			finished = m != nil && m.Status == store.Finished
		})
		return finished
	}, time.Second, 10*time.Millisecond, "master never finished the final")

	require.Eventually(t, func() bool {
		var finished bool
		_ = p.Tournament().View(ctx, func(s *store.Tournament) {
			m := s.Match(catID, finalID)
			finished = m != nil && m.Status == store.Finished
		})
		return finished
	}, time.Second, 10*time.Millisecond, "participant replica never converged with the master")

	cancel()
	<-runDone
}
