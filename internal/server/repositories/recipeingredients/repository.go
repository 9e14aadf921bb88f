package recipeingredients

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, ri *models.RecipeIngredient) error
	DeleteByRecipe(ctx context.Context, recipeID int64) error
	// ListByRecipe returns the recipe's ingredients with names resolved, in
	// insertion order.
	ListByRecipe(ctx context.Context, recipeID int64) ([]models.IngredientLine, error)
}
