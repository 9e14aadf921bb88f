// Package manage implements the recipectl maintenance commands: schema
// migrations, seeding of admins and categories, and the one-time import of
// legacy picture files.
package manage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/legacyimages"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/urfave/cli/v3"
)

// App holds the collaborators of the commands. Connect is only called by
// commands that need the database, so help output works without one.
type App struct {
	Out    io.Writer
	Logger logging.Logger
	Repos  repomanager.RepositoryManager

	// LoadConfig builds the configuration from the root flags.
	LoadConfig func(args []string) *config.Config
	Connect    func(ctx context.Context, cfg *config.Config) (*sql.DB, error)
	// ReadPassword reads a password from the terminal without echo.
	ReadPassword func(prompt string) (string, error)
	// NewSource opens the storage holding legacy pictures.
	NewSource func(ctx context.Context, cfg *config.Config, kind, dir string) (legacyimages.Source, error)

	cfg *config.Config
}

// Command builds the recipectl command tree.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:   "recipectl",
		Usage:  "Maintenance commands for the recipe server database",
		Writer: a.Out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON config file",
			},
			&cli.StringFlag{
				Name:    "dsn",
				Aliases: []string{"d"},
				Usage:   "PostgreSQL DSN, overrides the config file and environment",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var args []string
			if v := cmd.String("config"); v != "" {
				args = append(args, "-c", v)
			}
			if v := cmd.String("dsn"); v != "" {
				args = append(args, "-d", v)
			}
			a.cfg = a.LoadConfig(args)
			return ctx, nil
		},
		Commands: []*cli.Command{
			a.migrateCmd(),
			a.createDBCmd(),
			a.dropDBCmd(),
			a.createAdminsCmd(),
			a.createCategoriesCmd(),
			a.migrateImagesCmd(),
		},
	}
}

// withDB opens the database for the duration of fn.
func (a *App) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if a.cfg == nil {
		return errors.New("configuration is not loaded")
	}
	db, err := a.Connect(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

// OpenSource is the default App.NewSource.
func OpenSource(ctx context.Context, cfg *config.Config, kind, dir string) (legacyimages.Source, error) {
	if kind == "s3" {
		return legacyimages.NewS3Source(ctx, cfg)
	}
	return legacyimages.NewDirSource(dir), nil
}
