// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/migrations"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/activations"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/admins"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/categories"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredientunits"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/pictures"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/useraccounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes schema migration hooks.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ingredients(db dbx.DBTX) ingredients.Repository {
	return ingredients.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) IngredientUnits(db dbx.DBTX) ingredientunits.Repository {
	return ingredientunits.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RecipeIngredients(db dbx.DBTX) recipeingredients.Repository {
	return recipeingredients.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Pictures(db dbx.DBTX) pictures.Repository {
	return pictures.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Activations(db dbx.DBTX) activations.Repository {
	return activations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) UserAccounts(db dbx.DBTX) useraccounts.Repository {
	return useraccounts.NewPostgresRepository(db)
}

// goose seams for tests.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseDownContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.DownContext(ctx, db, dir, opts...)
	}
	gooseResetContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.ResetContext(ctx, db, dir, opts...)
	}
)

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// RunMigrations applies all pending embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (m *PostgresRepositoryManager) MigrateDown(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return gooseDownContext(ctx, db, ".")
}

func (m *PostgresRepositoryManager) ResetMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return gooseResetContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

var sqlOpen = sql.Open

// OpenDB opens a pgx-backed pool for dsn and checks that the server answers.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}
