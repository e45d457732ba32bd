package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmorgan318/ravenshade/internal/assets"
	"github.com/tmorgan318/ravenshade/internal/config"
	"github.com/tmorgan318/ravenshade/internal/controller"
	"github.com/tmorgan318/ravenshade/internal/gateway"
	"github.com/tmorgan318/ravenshade/internal/logger"
	"github.com/tmorgan318/ravenshade/internal/poller"
	"github.com/tmorgan318/ravenshade/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logDest io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logDest = f
	}
	log := logger.Setup(cfg, logDest)

	client := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to the game backend at %s.\nPlease ensure it is running.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	st := store.New()
	gw := gateway.New(client, cfg.APIBaseURL, log)
	ctrl := controller.New(gw, st, log)
	poll := poller.New(gw, st, cfg.PollInterval, log)
	resolver := assets.NewResolver(client, cfg.AssetBaseURL, st, log)

	p := tea.NewProgram(NewConsoleUI(cfg, log, st, ctrl, poll, resolver),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}
