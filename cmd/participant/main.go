// Command participant connects to a running master and keeps a local
// replica of one tournament in sync, for manual exercise and integration
// testing of the replication protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/svendcsvendsen/judoassistant/internal/logging"
	"github.com/svendcsvendsen/judoassistant/internal/replication"

	_ "github.com/svendcsvendsen/judoassistant/internal/draw"
	_ "github.com/svendcsvendsen/judoassistant/internal/ruleset/judo"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "ws://127.0.0.1:8866/ws", "master websocket address, including ?tournament=<id>")
	webName := flag.String("name", "participant", "display name announced at JOIN")
	dev := flag.Bool("dev", false, "enable human-readable development logging")
	flag.Parse()

	log, err := logging.New(logging.Options{Development: *dev})
	if err != nil {
		fmt.Fprintln(os.Stderr, "participant: logger init failed:", err)
		return 3
	}
	defer log.Sync() //nolint:errcheck

	tx, err := replication.Dial(*addr)
	if err != nil {
		log.Error("dial failed", zap.String("addr", *addr), zap.Error(err))
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := replication.Join(ctx, tx, *webName, log)
	if err != nil {
		log.Error("join failed", zap.Error(err))
		return 3
	}
	defer p.Close()

	log.Info("joined tournament", zap.Int("log_depth", p.Tournament().LogDepth()))

	if err := p.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("session ended with error", zap.Error(err))
		return 1
	}
	return 0
}
