package pictures

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *models.Picture) error
	// Get returns a picture with image data. Rows without data are reported
	// as not found.
	Get(ctx context.Context, id uuid.UUID) (*models.Picture, error)
	ListIDsByRecipe(ctx context.Context, recipeID int64) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRecipe(ctx context.Context, recipeID int64) error

	// ListPendingMigration returns rows that still reference a legacy file.
	ListPendingMigration(ctx context.Context) ([]models.Picture, error)
	SetImageData(ctx context.Context, id uuid.UUID, data []byte) error
}
