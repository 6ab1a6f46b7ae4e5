// ABOUTME: Entry point for the StudyHall terminal client
// ABOUTME: Parses CLI flags, loads config, and starts the application
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pascollanm-ctrl/studyhall-go/internal/app"
	"github.com/pascollanm-ctrl/studyhall-go/internal/config"
	"github.com/pascollanm-ctrl/studyhall-go/internal/version"
)

var (
	configPath = flag.String("config", "studyhall.yaml", "Config file path")
	serverURL  = flag.String("server", "", "Community service base URL (overrides config)")
	wsURL      = flag.String("ws", "", "Live feed websocket URL (overrides config)")
	name       = flag.String("name", "", "Display name (default: hostname)")
	logFile    = flag.String("log-file", "studyhall.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging. In TUI mode the terminal belongs to the UI, so
	// logs go only to the file.
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if *serverURL != "" {
		cfg.Service.BaseURL = *serverURL
	}
	if *wsURL != "" {
		cfg.Service.WSURL = *wsURL
	}

	displayName := *name
	if displayName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		displayName = hostname
	}

	log.Printf("Starting %s %s as %s", version.Product, version.Version, displayName)
	log.Printf("Community service: %s", cfg.Service.BaseURL)
	if cfg.OpenAI.APIKey == "" {
		log.Printf("No OpenAI API key configured; tutor and read-aloud disabled")
	}

	application, err := app.New(app.Config{
		ServerURL:   cfg.Service.BaseURL,
		WSURL:       cfg.WebsocketURL(),
		Name:        displayName,
		OpenAIKey:   cfg.OpenAI.APIKey,
		ChatModel:   cfg.OpenAI.ChatModel,
		SpeechModel: cfg.OpenAI.SpeechModel,
		Voice:       cfg.OpenAI.Voice,
		Codec:       cfg.Speech.Codec,
		UseTUI:      useTUI,
	})
	if err != nil {
		log.Fatalf("error creating application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down...", sig)
		application.Stop()
	}()

	if err := application.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "studyhall: %v\n", err)
		log.Fatalf("application error: %v", err)
	}

	log.Printf("Stopped")
}
