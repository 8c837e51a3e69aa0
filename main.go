package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DerDob/kleiderkammer/internal/config"
	"github.com/DerDob/kleiderkammer/internal/handler"
	"github.com/DerDob/kleiderkammer/internal/metrics"
	"github.com/DerDob/kleiderkammer/internal/repository/jsonfile"
	"github.com/DerDob/kleiderkammer/internal/samlauth"
	"github.com/DerDob/kleiderkammer/internal/security"
	"github.com/DerDob/kleiderkammer/internal/service"
	"github.com/DerDob/kleiderkammer/internal/worker/dirsync"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if len(cfg.SessionSecret) < 32 {
		slog.Error("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	store, err := jsonfile.Open(cfg.ClothingFile, cfg.LendingsFile)
	if err != nil {
		slog.Error("open data store", "error", err)
		os.Exit(1)
	}
	slog.Info("data store loaded", "clothing_file", cfg.ClothingFile, "lendings_file", cfg.LendingsFile)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ledger := service.NewLedgerService(store.Clothing(), store.Lendings())
	policy := service.NewPolicy(cfg.AdminGroup)
	directory := service.NewDirectory()
	sessions := service.NewSessionService(cfg.SessionSecret, cfg.SessionMaxAge)
	limiter := service.NewTokenBucket(1, 10)

	samlConfig, err := samlauth.LoadConfig(cfg.SAMLConfigPath)
	if err != nil {
		slog.Error("load saml configuration", "error", err)
		os.Exit(1)
	}
	samlMW, err := samlauth.NewMiddleware(samlConfig, cfg.BaseURL)
	if err != nil {
		slog.Error("configure saml service provider", "error", err)
		os.Exit(1)
	}
	slog.Info("saml metadata available", "url", cfg.BaseURL+"/saml/metadata")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DirectoryURL == "" {
		slog.Warn("AUTHENTIK_USER_API not set; user directory stays empty")
	} else {
		client := dirsync.NewClient(
			cfg.DirectoryURL,
			cfg.DirectoryToken,
			security.NewDirectoryClient(30*time.Second, cfg.DirectoryAllowPrivate),
		)
		syncer := dirsync.NewSyncer(client, directory, logger, collector)
		go syncer.Start(ctx, cfg.SyncInterval)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, ledger, policy, directory, sessions, samlMW, samlauth.UserFromRequest, limiter, collector, cfg.CookieSecure, cfg.PublicDir)
	mux.Handle("GET /metrics", metrics.Handler(registry))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.LogRequests(logger, collector, handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "public_dir", cfg.PublicDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
