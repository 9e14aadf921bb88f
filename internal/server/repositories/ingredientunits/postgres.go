package ingredientunits

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

func (r *PostgresRepository) Upsert(ctx context.Context, ingredientID int64, unit models.Unit) error {
	query :=
		`INSERT INTO ingredient_unit (ingredient_id, unit)
		 VALUES ($1, $2)
		 ON CONFLICT (ingredient_id) DO UPDATE SET unit = EXCLUDED.unit`

	if _, err := r.db.ExecContext(ctx, query, ingredientID, string(unit)); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return &common.NotFoundError{Entity: "ingredient", ID: strconv.FormatInt(ingredientID, 10)}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.IngredientUnit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ingredient_id, unit FROM ingredient_unit ORDER BY ingredient_id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.IngredientUnit, 0)
	for rows.Next() {
		var (
			iu   models.IngredientUnit
			unit string
		)
		if err := rows.Scan(&iu.IngredientID, &unit); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		iu.Unit = models.Unit(unit)
		result = append(result, iu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
