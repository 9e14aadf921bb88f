package manage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/foodrecipe/internal/server/changes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/legacyimages"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
	"github.com/urfave/cli/v3"
)

func (a *App) migrateCmd() *cli.Command {
	step := func(name, usage, done string, run func(ctx context.Context, db *sql.DB) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(ctx context.Context, _ *cli.Command) error {
				return a.withDB(ctx, func(db *sql.DB) error {
					if err := run(ctx, db); err != nil {
						return err
					}
					a.printf("%s\n", done)
					return nil
				})
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back schema migrations",
		Commands: []*cli.Command{
			step("up", "Apply all pending migrations", "migrations applied", a.Repos.RunMigrations),
			step("down", "Roll back the latest migration", "latest migration rolled back", a.Repos.MigrateDown),
			step("reset", "Roll back every migration", "all migrations rolled back", a.Repos.ResetMigrations),
		},
	}
}

func (a *App) createDBCmd() *cli.Command {
	return &cli.Command{
		Name:  "create-db",
		Usage: "Drop and recreate the schema",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return a.withDB(ctx, func(db *sql.DB) error {
				if err := a.Repos.ResetMigrations(ctx, db); err != nil {
					return err
				}
				if err := a.Repos.RunMigrations(ctx, db); err != nil {
					return err
				}
				a.printf("database created\n")
				return nil
			})
		},
	}
}

func (a *App) dropDBCmd() *cli.Command {
	return &cli.Command{
		Name:  "drop-db",
		Usage: "Drop the schema",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return a.withDB(ctx, func(db *sql.DB) error {
				if err := a.Repos.ResetMigrations(ctx, db); err != nil {
					return err
				}
				a.printf("database dropped\n")
				return nil
			})
		},
	}
}

func (a *App) createAdminsCmd() *cli.Command {
	return &cli.Command{
		Name:  "create-admins",
		Usage: "Create the manager and editor accounts or reset their passwords",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "password",
				Value: services.DefaultAdminPassword,
				Usage: "password for both accounts",
			},
			&cli.BoolFlag{
				Name:  "prompt",
				Usage: "read the password from the terminal",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password := cmd.String("password")
			if cmd.Bool("prompt") {
				p, err := a.ReadPassword("Admin password: ")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}

			return a.withDB(ctx, func(db *sql.DB) error {
				s := services.NewAdminService(db, a.Repos, a.cfg)
				if err := s.EnsureAdmins(ctx, password); err != nil {
					return err
				}
				for _, adm := range services.DefaultAdmins {
					a.printf("admin %s (%s) ready\n", adm.Login, adm.Role)
				}
				return nil
			})
		},
	}
}

func (a *App) createCategoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "create-categories",
		Usage: "Add the default recipe categories",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return a.withDB(ctx, func(db *sql.DB) error {
				s := services.NewCatalogService(db, a.Repos, changes.NewTracker())
				added, err := s.SeedCategories(ctx)
				if err != nil {
					return err
				}
				a.printf("%d categories added\n", added)
				return nil
			})
		},
	}
}

func (a *App) migrateImagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate-images",
		Usage: "Import picture files of the old backend into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: "dir",
				Usage: "where the files are: dir or s3",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "upload directory for --source dir (default from config)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind := cmd.String("source")
			if kind != "dir" && kind != "s3" {
				return fmt.Errorf("unknown source %q, want dir or s3", kind)
			}
			dir := cmd.String("dir")
			if dir == "" {
				dir = a.cfg.UploadDir
			}

			src, err := a.NewSource(ctx, a.cfg, kind, dir)
			if err != nil {
				return err
			}

			return a.withDB(ctx, func(db *sql.DB) error {
				res, err := legacyimages.NewMigrator(db, a.Repos, src, a.Logger).Run(ctx)
				if err != nil {
					return err
				}
				a.printf("%d pictures migrated, %d removed, %d skipped\n", res.Migrated, res.Removed, res.Skipped)
				return nil
			})
		},
	}
}
