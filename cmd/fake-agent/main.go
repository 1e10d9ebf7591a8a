// ABOUTME: Fake agent platform for local development and E2E testing of insight-chat
// ABOUTME: Usage: fake-agent [-addr localhost:8787] [-db :memory:] [-step 300ms]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/2389/insight-chat/internal/activity"
	"github.com/2389/insight-chat/internal/config"
	"github.com/2389/insight-chat/internal/knowledge"
	"github.com/2389/insight-chat/internal/logging"
)

func main() {
	addr := flag.String("addr", "localhost:8787", "HTTP listen address")
	dbPath := flag.String("db", ":memory:", "SQLite path for knowledge-base documents")
	step := flag.Duration("step", 300*time.Millisecond, "Pause between activity events")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(*addr, *dbPath, *step, *level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, dbPath string, step time.Duration, level string) error {
	logger := logging.New(config.LoggingConfig{Level: level}, os.Stderr)

	docs, err := knowledge.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return err
	}
	defer docs.Close()

	broadcaster := activity.NewBroadcaster(logger)
	defer broadcaster.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(docs, broadcaster, step, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("fake agent listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Close subscriber channels first so websocket handlers return.
		broadcaster.Close()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
