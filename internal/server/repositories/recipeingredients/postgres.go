package recipeingredients

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, ri *models.RecipeIngredient) error {
	query :=
		`INSERT INTO recipe_ingredient (recipe_id, ingredient_id, quantity, unit)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, ri.RecipeID, ri.IngredientID, ri.Quantity, string(ri.Unit)).Scan(&ri.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return &common.NotFoundError{Entity: "ingredient", ID: strconv.FormatInt(ri.IngredientID, 10)}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByRecipe(ctx context.Context, recipeID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredient WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]models.IngredientLine, error) {
	query :=
		`SELECT i.id, i.name, ri.quantity, ri.unit
		 FROM recipe_ingredient ri
		 JOIN ingredient i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY ri.id`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	lines := make([]models.IngredientLine, 0)
	for rows.Next() {
		var (
			l    models.IngredientLine
			unit string
		)
		if err := rows.Scan(&l.Ingredient.ID, &l.Ingredient.Name, &l.Quantity, &unit); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		l.Unit = models.Unit(unit)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lines, nil
}
