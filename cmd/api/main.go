package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/account-closed/Ref39TopicAssistant/internal/config"
	"github.com/account-closed/Ref39TopicAssistant/internal/http"
	"github.com/account-closed/Ref39TopicAssistant/internal/search"
	"github.com/account-closed/Ref39TopicAssistant/internal/service"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the record store
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	memberRepo := storage.NewMemberRepo(db)
	tagRepo := storage.NewTagRepo(db)
	topicRepo := storage.NewTopicRepo(db)
	revisionRepo := storage.NewRevisionRepo(db)

	// Initialize the search index
	index, err := search.Open(cfg.IndexPath)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer func() {
		_ = index.Close()
	}()
	slog.Info("Search index opened", "path", cfg.IndexPath)

	syncer := service.NewSyncer(topicRepo, tagRepo, index)

	// Rebuild the index from the record store at startup so it reflects
	// any writes it missed while the process was down.
	ctx := context.Background()
	syncer.TagsChanged(ctx)

	// Create router with dependencies
	deps := &http.Deps{
		Members:   memberRepo,
		Tags:      tagRepo,
		Topics:    topicRepo,
		Revisions: revisionRepo,
		Index:     index,
		Syncer:    syncer,
		APIPSK:    cfg.APIPSK,
	}
	router := http.NewRouter(deps)

	if cfg.APIPSK == "" {
		slog.Warn("API_PSK is empty, authentication is disabled")
	}

	addr := ":" + cfg.APIPort
	slog.Info("Starting server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
