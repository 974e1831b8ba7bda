// Package server initializes and runs the application server. It selects a
// storage backend, wires services into the HTTP router, and handles graceful
// shutdown on OS signals.
package server

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

	"github.com/dmitrijs2005/healthlog/internal/logging"
	"github.com/dmitrijs2005/healthlog/internal/server/config"
	"github.com/dmitrijs2005/healthlog/internal/server/httpapi"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthlog/internal/server/services"
	"github.com/dmitrijs2005/healthlog/internal/server/tokens"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.Manager
	handler http.Handler
}

// NewApp wires the full server. An empty DatabaseDSN selects the in-memory
// stores; otherwise Postgres is used and migrations run on startup.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		manager repomanager.Manager
		err     error
	)
	if cfg.DatabaseDSN == "" {
		manager = repomanager.NewInMemoryManager()
	} else {
		manager, err = repomanager.NewPostgresManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	if err := manager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := tokens.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	authService := services.NewAuthService(manager.Accounts(), manager.RefreshTokens(), codec)
	recordsService := services.NewRecordsService()

	handler := httpapi.NewRouter(authService, recordsService, logger)

	return &App{config: cfg, logger: logger, manager: manager, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a signal arrives, then
// shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if err := app.manager.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}
	return nil
}
