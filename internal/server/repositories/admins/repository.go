package admins

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	GetByLogin(ctx context.Context, login string) (*models.AdminAccount, error)
	// Upsert creates the account or resets its password hash and role.
	Upsert(ctx context.Context, a *models.AdminAccount) error
}
