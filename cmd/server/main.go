package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"cookiegate/internal/admin"
	"cookiegate/internal/bridge"
	consenthandler "cookiegate/internal/consent/handler"
	"cookiegate/internal/consent/models"
	"cookiegate/internal/consentlog"
	"cookiegate/internal/gating"
	"cookiegate/internal/platform/config"
	"cookiegate/internal/platform/database"
	"cookiegate/internal/platform/health"
	"cookiegate/internal/platform/logger"
	"cookiegate/internal/platform/metrics"
	"cookiegate/internal/platform/tracer"
	httptransport "cookiegate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	policy, err := cfg.Policy()
	if err != nil {
		log.Error("invalid policy configuration", "error", err)
		os.Exit(1)
	}

	log.Info("initializing cookiegate",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"policy_version", policy.Version,
		"script_blocking", cfg.ScriptBlocking,
		"content_blocking", cfg.ContentBlocking,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	db, err := database.Open(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var auditStore consentlog.Store
	if db != nil {
		auditStore = consentlog.NewPostgresStore(db)
	} else {
		log.Warn("no DATABASE_URL set, audit log is in-memory and volatile")
		auditStore = consentlog.NewInMemoryStore()
	}

	publisher := consentlog.NewPublisher(auditStore, cfg.Secret,
		consentlog.WithAsyncBuffer(cfg.AuditBuffer),
		consentlog.WithPublisherLogger(log),
	)
	defer publisher.Close()

	mx := metrics.New()
	dispatcher := bridge.NewDispatcher(log)
	dispatcher.Subscribe(func(ctx context.Context, event bridge.Event) {
		log.InfoContext(ctx, "consent changed",
			"action", event.ActionType,
			"analytics", event.Categories[models.CategoryAnalytics],
			"marketing", event.Categories[models.CategoryMarketing],
		)
	})

	registry := gating.NewRegistry()
	registry.LoadDeclaredCookies(policy.DeclaredCookies)

	consent := consenthandler.New(policy, cfg.Secret, publisher, dispatcher,
		consenthandler.WithLogger(log),
		consenthandler.WithMetrics(mx),
		consenthandler.WithTracer(tracer.NewOTel()),
		consenthandler.WithRegistry(registry),
		consenthandler.WithBlocking(cfg.ScriptBlocking, cfg.ContentBlocking),
		consenthandler.WithConsentMode(cfg.GCMEnabled),
	)
	adminAPI := admin.New(auditStore, publisher, cfg.Secret, cfg.AdminPasswordHash, log)

	healthAPI := health.New(cfg.Environment)
	if db != nil {
		healthAPI.RegisterCheck("database", database.Health(db))
	}

	router := httptransport.NewRouter(consent, adminAPI, healthAPI, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.RetentionDays > 0 && db != nil {
		group.Go(func() error {
			runRetention(ctx, log, auditStore, cfg.RetentionDays)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// runRetention prunes audit rows past the retention window once a day.
func runRetention(ctx context.Context, log *slog.Logger, store consentlog.Store, days int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -days)
			deleted, err := store.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				log.ErrorContext(ctx, "retention prune failed", "error", err)
				continue
			}
			log.InfoContext(ctx, "retention prune completed", "deleted", deleted, "days", days)
		}
	}
}
