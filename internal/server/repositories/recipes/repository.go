package recipes

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

// Repository reads and writes recipe rows. Listing queries join the category
// so callers get RecipeDetails without ingredients and pictures filled in.
type Repository interface {
	// List returns recipes ordered by id; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]models.RecipeDetails, error)
	GetDetails(ctx context.Context, id int64) (*models.RecipeDetails, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	SetNeedsAuth(ctx context.Context, id int64, needsAuth bool) error
	Delete(ctx context.Context, id int64) error
}
