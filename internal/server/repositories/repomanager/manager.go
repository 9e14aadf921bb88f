package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/activations"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/admins"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/categories"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredientunits"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/pictures"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/useraccounts"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a *sql.Tx
// and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	// ResetMigrations rolls every migration back, dropping the schema.
	ResetMigrations(ctx context.Context, db *sql.DB) error
	// MigrateDown rolls back the most recent migration.
	MigrateDown(ctx context.Context, db *sql.DB) error

	Categories(db dbx.DBTX) categories.Repository
	Ingredients(db dbx.DBTX) ingredients.Repository
	IngredientUnits(db dbx.DBTX) ingredientunits.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	RecipeIngredients(db dbx.DBTX) recipeingredients.Repository
	Pictures(db dbx.DBTX) pictures.Repository
	Admins(db dbx.DBTX) admins.Repository
	Activations(db dbx.DBTX) activations.Repository
	UserAccounts(db dbx.DBTX) useraccounts.Repository
}
