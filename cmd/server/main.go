package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/programme-lv/contests/conf"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := conf.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the judge poller must outlive the http drain so in-flight submissions
	// still get their verdicts
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var wg sync.WaitGroup
	app, cleanup, err := wire(ctx, workerCtx, cfg, &wg)
	if err != nil {
		return err
	}
	defer cleanup()

	ln, err := net.Listen("tcp", cfg.HttpAddr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           newRouter(cfg, app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("starting server", "address", ln.Addr().String(), "contest_store", cfg.ContestStore, "judge", cfg.Judge)
	if err := serve(ctx, server, ln, stopWorkers, &wg); err != nil {
		return err
	}
	slog.Info("server exited cleanly")
	return nil
}

// serve runs server on ln until ctx is done. Background workers are stopped
// only after Shutdown has drained in-flight requests.
func serve(ctx context.Context, server *http.Server, ln net.Listener, stopWorkers context.CancelFunc, wg *sync.WaitGroup) error {
	defer wg.Wait()
	defer stopWorkers()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	slog.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
