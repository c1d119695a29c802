// Package server initializes and runs the vault server: configuration,
// master key, database and migrations, repositories, access guard, cipher,
// vault service and the HTTP API, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avolkov/credvault/internal/cryptox"
	"github.com/avolkov/credvault/internal/logging"
	"github.com/avolkov/credvault/internal/server/access"
	"github.com/avolkov/credvault/internal/server/config"
	"github.com/avolkov/credvault/internal/server/httpapi"
	"github.com/avolkov/credvault/internal/server/repositories/repomanager"
	"github.com/avolkov/credvault/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	masterKey cryptox.MasterKey
	vault     *services.VaultService
}

// NewApp wires the application. It fails fast when the master key is
// absent or malformed; the process must not serve traffic without it.
func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	masterKey, err := cryptox.LoadMasterKey()
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}

	cipher, err := cryptox.NewCipher(masterKey)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	guard := access.NewService(rm.Memberships(db))
	vault := services.NewVaultService(db, rm, guard, cipher)

	return &App{
		config:    cfg,
		logger:    logger,
		db:        db,
		masterKey: masterKey,
		vault:     vault,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is cancelled, then shuts down
// gracefully and wipes the master key.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	api := httpapi.NewServer(app.vault, []byte(app.config.SecretKey), app.logger)
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting vault server", "addr", app.config.EndpointAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.shutdownCleanup(ctx)
			return err
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "err", err.Error())
		}
	}

	app.shutdownCleanup(ctx)
	return nil
}

func (app *App) shutdownCleanup(ctx context.Context) {
	app.masterKey.Wipe()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err.Error())
	}
}
