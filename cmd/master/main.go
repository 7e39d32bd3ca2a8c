// Command master hosts tournaments and serves participants over websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/svendcsvendsen/judoassistant/internal/config"
	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/logging"
	"github.com/svendcsvendsen/judoassistant/internal/manager"
	"github.com/svendcsvendsen/judoassistant/internal/replication"
	"github.com/svendcsvendsen/judoassistant/internal/store"

	_ "github.com/svendcsvendsen/judoassistant/internal/draw"
	_ "github.com/svendcsvendsen/judoassistant/internal/ruleset/judo"
)

// Exit codes per the process boundary contract: 0 normal, 2 bind failure,
// 3 load failure.
const (
	exitOK       = 0
	exitBindFail = 2
	exitLoadFail = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	port := flag.Int("serve", 8866, "port to host participants on")
	dataDir := flag.String("data-dir", "./data", "directory holding saved tournament files")
	configPath := flag.String("config", "", "optional path to a JSON engine config")
	dev := flag.Bool("dev", false, "enable human-readable development logging")
	flag.Parse()

	log, err := logging.New(logging.Options{Development: *dev})
	if err != nil {
		fmt.Fprintln(os.Stderr, "master: logger init failed:", err)
		return exitLoadFail
	}
	defer log.Sync() //nolint:errcheck

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Error("config load failed", zap.Error(err))
			return exitLoadFail
		}
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Error("data directory unavailable", zap.Error(err))
		return exitLoadFail
	}

	mgr := manager.NewManager(fileLoader(*dataDir), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(mgr, *dataDir, log))

	addr := fmt.Sprintf(":%d", *port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("bind failed", zap.String("addr", addr), zap.Error(err))
		return exitBindFail
	}

	log.Info("master listening", zap.String("addr", addr))
	if err := http.Serve(ln, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
		return exitLoadFail
	}
	return exitOK
}

// fileLoader loads a tournament from <dataDir>/<id>.json, creating a fresh
// empty tournament the first time a given id is requested.
func fileLoader(dataDir string) manager.Loader {
	return func(ctx context.Context, id ids.ID) (*store.Tournament, error) {
		path := filepath.Join(dataDir, id.String()+".json")
		t, err := store.LoadFromFile(path)
		if err == nil {
			return t, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return store.NewTournament(id, "untitled tournament", id.String()), nil
		}
		return nil, err
	}
}

// handleWebSocket upgrades one participant connection and runs its
// JOIN/SYNC/ACTION session to completion, autosaving the tournament once
// the session ends.
func handleWebSocket(mgr *manager.Manager, dataDir string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseTournamentID(r.URL.Query().Get("tournament"))
		if err != nil {
			http.Error(w, "bad or missing tournament id", http.StatusBadRequest)
			return
		}

		tx, err := replication.Upgrade(w, r)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer tx.Close()

		ctx := r.Context()
		tr, err := mgr.Open(ctx, id)
		if err != nil {
			log.Warn("tournament open failed", zap.String("tournament", id.String()), zap.Error(err))
			return
		}

		master := replication.NewMaster(id, tr, log)
		if err := master.Serve(ctx, tx); err != nil {
			log.Info("session ended", zap.String("tournament", id.String()), zap.Error(err))
		}

		var snap store.Snapshot
		if err := tr.View(ctx, func(t *store.Tournament) { snap = t.Snapshot() }); err != nil {
			return
		}
		path := filepath.Join(dataDir, id.String()+".json")
		if err := store.SaveSnapshotToFile(snap, path); err != nil {
			log.Warn("autosave failed", zap.String("tournament", id.String()), zap.Error(err))
		}
	}
}

func parseTournamentID(s string) (ids.ID, error) {
	if s == "" {
		return ids.Nil, errors.New("missing tournament query parameter")
	}
	return uuid.Parse(s)
}
