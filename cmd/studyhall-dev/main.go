// ABOUTME: Entry point for the local development community service
// ABOUTME: Parses CLI flags and runs the in-memory devserver
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pascollanm-ctrl/studyhall-go/internal/devserver"
)

var (
	addr  = flag.String("addr", ":8765", "Listen address")
	seed  = flag.Bool("seed", true, "Start with sample announcements and resources")
	debug = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	srv := devserver.New(devserver.Config{Addr: *addr, Seed: *seed}, devserver.WithLogger(logger))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutting down", slog.String("signal", sig.String()))
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		logger.Error("devserver failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("devserver stopped")
}
