// Package server wires the recipe server together: database, migrations,
// services and the REST transport. It handles graceful shutdown on SIGINT,
// SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/authz"
	"github.com/dmitrijs2005/foodrecipe/internal/server/changes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodrecipe/internal/server/rest"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

// NewApp connects to the database, applies pending migrations and builds the
// HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Config{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stdout})

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	roles, err := authz.NewEnforcer()
	if err != nil {
		return nil, err
	}

	tracker := changes.NewTracker()

	h := rest.NewHandler(rest.Deps{
		Config:  c,
		Logger:  logger,
		Roles:   roles,
		DB:      db,
		Admins:  services.NewAdminService(db, rm, c),
		Catalog: services.NewCatalogService(db, rm, tracker),
		Recipes: services.NewRecipeService(db, rm, tracker),
		Clients: services.NewClientService(db, rm, c),
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c, logger, h.Routes()),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
