// ABOUTME: Main entry point for the standalone proposals HTTP API server
// ABOUTME: Opens storage and services, serves JSON until interrupted
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/proposal-forge/internal/app"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/server"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides PROPOSALS_ADDR)")
	flag.Parse()

	a, err := app.Open(app.Options{LogOutput: os.Stderr})
	if err != nil {
		logging.Default().Fatal("failed to start", "err", err)
	}

	if !a.AIEnabled {
		a.Logger.Warn("OPENAI_API_KEY not set, generation and analysis endpoints will fail")
	}

	listen := *addr
	if listen == "" {
		listen = a.Config.ListenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.Services, a.Config.RequestTimeout, a.Logger)
	err = srv.ListenAndServe(ctx, listen)
	_ = a.Close()
	if err != nil {
		a.Logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
