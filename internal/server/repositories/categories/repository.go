package categories

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	// CreateIfMissing inserts name unless it already exists and reports
	// whether a row was added.
	CreateIfMissing(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, id int64, name string) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}
