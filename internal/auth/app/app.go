package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/freshmart/internal/auth/email"
	httpapi "github.com/aussiebroadwan/freshmart/internal/auth/http"
	"github.com/aussiebroadwan/freshmart/internal/auth/service"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	svc     *service.Service
	sweeper *service.Sweeper

	server *http.Server
	router *httpapi.Router

	sweeperCancel context.CancelFunc
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "freshmart-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested. A
// sweeper failure is fatal: the process exits so the orchestrator restarts
// it against a healthy store.
func (app *Application) Run() error {
	sweepCtx, cancel := context.WithCancel(slogx.WithContext(context.Background(), app.logger))
	app.sweeperCancel = cancel

	sweeperErrors := make(chan error, 1)
	go func() {
		sweeperErrors <- app.sweeper.Run(sweepCtx)
	}()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case err := <-sweeperErrors:
		if err != nil && err != context.Canceled {
			app.logger.Error("sweeper failed, shutting down", "error", err)
			_ = app.Shutdown()
			return fmt.Errorf("sweeper failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.sweeperCancel != nil {
		app.sweeperCancel()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices wires the mailer, lifecycle service and sweeper.
func (app *Application) initServices() error {
	mailer, err := email.NewMailer(email.Config{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	signer := jwtx.NewSigner(app.cfg.SecretKey, app.cfg.Issuer, app.cfg.Audience)
	app.svc = service.New(app.db, signer, mailer, service.Config{
		PasswordResetURL: app.cfg.PasswordResetURL,
	})

	app.sweeper = service.NewSweeper(app.db)
	app.sweeper.TokenInterval = app.cfg.TokenSweepInterval
	app.sweeper.CartInterval = app.cfg.CartSweepInterval

	return nil
}

// initHTTP builds the router and server.
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifier(app.cfg.SecretKey, app.cfg.Issuer, app.cfg.Audience)

	app.router = httpapi.NewRouter(app.svc, verifier, BuildVersion, app.db, app.logger)
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
