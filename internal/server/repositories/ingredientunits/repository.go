package ingredientunits

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	// Upsert records unit as the last unit used with the ingredient.
	Upsert(ctx context.Context, ingredientID int64, unit models.Unit) error
	List(ctx context.Context) ([]models.IngredientUnit, error)
}
