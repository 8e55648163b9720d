package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	bcryptadapter "github.com/ericfisherdev/bookstore/internal/adapter/driven/bcrypt"
	jwtadapter "github.com/ericfisherdev/bookstore/internal/adapter/driven/jwt"
	sqliteadapter "github.com/ericfisherdev/bookstore/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/bookstore/internal/adapter/driving/http"
	"github.com/ericfisherdev/bookstore/internal/application"
	"github.com/ericfisherdev/bookstore/internal/config"
	"github.com/ericfisherdev/bookstore/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing or weak signing secret).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"token_ttl", cfg.TokenTTL,
		"token_issuer", cfg.TokenIssuer,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("migrations complete", "schema_version", version)

	// 5. Wire store adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	catalog := httphandler.Catalog{
		Authors: sqliteadapter.NewAuthorRepo(db),
		Genres:  sqliteadapter.NewGenreRepo(db),
		Books:   sqliteadapter.NewBookRepo(db),
	}
	orderStore := sqliteadapter.NewOrderRepo(db)

	// 6. Wire the credential and token adapters.
	hasher := bcryptadapter.NewHasher()
	issuer, err := jwtadapter.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenIssuer)
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}
	verifier, err := jwtadapter.NewVerifier(cfg.JWTSecret, cfg.TokenIssuer)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}

	// 7. Create application services.
	authSvc, err := application.NewAuthService(userStore, hasher, issuer, verifier, slog.Default())
	if err != nil {
		return err
	}
	userSvc := application.NewUserService(userStore, hasher, slog.Default())
	orderSvc := application.NewOrderService(orderStore, catalog.Books, slog.Default())

	// 7b. Bootstrap the admin account when configured.
	if cfg.HasAdminBootstrap() {
		admin, err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		slog.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	// 8. Metrics registry with database pool stats.
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	metrics.RegisterDB(db.Writer, "writer")
	metrics.RegisterDB(db.Reader, "reader")

	// 9. Create HTTP handler with all routes and middleware.
	apiHandler := httphandler.NewHandler(authSvc, userSvc, orderSvc, catalog, metrics, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, slog.Default()),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 10. Serve until a signal arrives, then drain.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	slog.Info("bookstore started", "listen_addr", cfg.ListenAddr)

	if err := g.Wait(); err != nil {
		return err
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
