package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/splitparty/backend/internal/auth"
	"github.com/splitparty/backend/internal/config"
	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/notify"
	"github.com/splitparty/backend/internal/service"
	"github.com/splitparty/backend/internal/storage/sqlite"
	httptransport "github.com/splitparty/backend/internal/transport/http"
	"github.com/splitparty/backend/pkg/logging"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.Database.Path)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTP.Configured() {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store, cfg.Auth.VerificationTokenTTL)

	authSvc := service.NewAuthService(authenticator, jwtManager, mailer, store, m)
	gatheringSvc := service.NewGatheringService(store, m)
	receiptSvc := service.NewReceiptService(store, m)
	assignmentSvc := service.NewAssignmentService(store, m)

	router := httptransport.NewRouter(jwtManager, authSvc, gatheringSvc, receiptSvc, assignmentSvc)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
