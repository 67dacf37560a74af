package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/auth"
	"evidence-platform/internal/cases"
	"evidence-platform/internal/config"
	"evidence-platform/internal/evidence"
	"evidence-platform/internal/httpapi"
	"evidence-platform/internal/identity"
	"evidence-platform/internal/search"
	"evidence-platform/internal/submission"
	"evidence-platform/pkg/logger"
	"evidence-platform/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("configure token manager: %w", err)
	}

	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{
		Addr: fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
	})
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	defer rdb.Close()

	blobs, err := evidence.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	auditor := audit.NewService(audit.NewPostgresRepo(db), log)
	caseSvc := cases.NewService(cases.NewPostgresRepo(db), auditor)
	evidenceSvc := evidence.NewService(evidence.NewPostgresRepo(db), blobs, caseSvc, auditor, log, cfg.Storage.MaxUploadBytes)
	submissionSvc := submission.NewService(submission.NewPostgresRepo(db), auditor)
	searchSvc := search.NewService(search.NewPostgresRepo(db), caseSvc, evidenceSvc, submissionSvc, auditor, cfg.Search.MaxLimit)
	identitySvc := identity.NewService(identity.NewPostgresRepo(db), tokens, auditor)

	handlers := &httpapi.Handlers{
		Identity:    identitySvc,
		Cases:       caseSvc,
		Evidence:    evidenceSvc,
		Submissions: submissionSvc,
		Search:      searchSvc,
		Audit:       auditor,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           httpapi.NewRouter(handlers, tokens, rdb, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // large evidence uploads
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
