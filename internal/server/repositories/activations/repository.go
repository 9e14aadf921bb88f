package activations

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.AppActivation) (*models.AppActivation, error)
	// List returns all activations with UserAccountsCount filled in.
	List(ctx context.Context) ([]models.AppActivation, error)
	// GetByCodeForUpdate locks the activation row until the surrounding
	// transaction ends so concurrent redemptions are serialized.
	GetByCodeForUpdate(ctx context.Context, code string) (*models.AppActivation, error)
}
