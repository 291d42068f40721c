// Package main implements the usecase-manager binary, which serves the
// use-case deployment API and validates deployment requests offline.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		log.Error("fatal", "error", err)
		cancel()
		os.Exit(1)
	}
}
