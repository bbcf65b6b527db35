// Package main is the composition root for gong-mcp.
// All dependencies are wired here: no service locator, no global state.
// This is the only place that knows about all layers simultaneously.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	exportapp "github.com/felixgeelhaar/gong-mcp/internal/application/export"
	statusapp "github.com/felixgeelhaar/gong-mcp/internal/application/status"
	userapp "github.com/felixgeelhaar/gong-mcp/internal/application/user"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/config"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/gong"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/journal"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/metrics"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/resilience"
	"github.com/felixgeelhaar/gong-mcp/internal/interfaces/cli"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the stdio transport; logs always go to stderr.
	logger := newLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	// --- Infrastructure Layer ---

	creds, err := cfg.Credentials()
	if err != nil {
		logger.Warn("gong credentials unusable; running unconfigured",
			"error", err, "missing", cfg.Missing(), "invalid", cfg.Invalid())
		creds = nil
	}

	// An unconfigured adapter keeps a nil Repository so every use case
	// fails fast without touching the network.
	var repo domain.Repository
	if creds != nil {
		httpClient := &http.Client{Timeout: cfg.Resilience.Timeout}
		client := gong.NewClient(creds, httpClient, "gong-mcp/"+version)

		resilientRepo := resilience.NewResilientRepository(gong.NewRepository(client), resilience.Config{
			Timeout:          cfg.Resilience.Timeout,
			FailureThreshold: cfg.Resilience.CircuitBreaker.FailureThreshold,
			SuccessThreshold: cfg.Resilience.CircuitBreaker.SuccessThreshold,
			HalfOpenTimeout:  cfg.Resilience.CircuitBreaker.HalfOpenTimeout,
			Rate:             cfg.Resilience.RateLimit.Rate,
			Interval:         cfg.Resilience.RateLimit.Interval,
		})
		defer func() { _ = resilientRepo.Close() }()
		repo = resilientRepo
		logger.Info("gong api configured", "credentials", creds)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := []mcpiface.RequestObserver{metrics.New(reg)}

	var store *journal.Store
	if cfg.Journal.Enabled {
		db, err := journal.Open(cfg.Journal.Dir)
		if err != nil {
			logger.Warn("request journal unavailable", "dir", cfg.Journal.Dir, "error", err)
		} else {
			defer func() { _ = db.Close() }()
			store = journal.NewStore(db, logger)
			if cfg.Journal.Retention > 0 {
				if n, err := store.Prune(context.Background(), cfg.Journal.Retention); err != nil {
					logger.Warn("journal prune failed", "error", err)
				} else if n > 0 {
					logger.Debug("journal pruned", "removed", n)
				}
			}
			observers = append(observers, store)
		}
	}

	// --- Application Layer (Use Cases) ---

	checkStatus := statusapp.NewCheckStatus(creds, cfg.Missing(), statusapp.ServerInfo{
		Name:    cfg.MCP.ServerName,
		Version: version,
	}).WithInvalid(cfg.Invalid())
	listUsers := userapp.NewListUsers(repo)
	getTranscript := callapp.NewGetTranscript(repo)
	searchCalls := callapp.NewSearchCalls(repo)
	exportTranscript := exportapp.NewExportTranscript(getTranscript)

	// --- Interfaces Layer ---

	mcpServer := mcpiface.NewServer(cfg.MCP.ServerName, version, mcpiface.ServerOptions{
		Credentials:   creds,
		CheckStatus:   checkStatus,
		ListUsers:     listUsers,
		GetTranscript: getTranscript,
		SearchCalls:   searchCalls,
		Observers:     observers,
		Gatherer:      reg,
		Logger:        logger,
	})

	deps := &cli.Dependencies{
		MCPServer:        mcpServer,
		CheckStatus:      checkStatus,
		ExportTranscript: exportTranscript,
		Journal:          store,
		Credentials:      creds,
		Transport:        cfg.MCP.Transport,
		Host:             cfg.MCP.Host,
		Port:             cfg.MCP.Port,
		OpsPort:          cfg.MCP.OpsPort,
		Out:              os.Stdout,
	}

	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
