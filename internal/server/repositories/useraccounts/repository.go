package useraccounts

import (
	"context"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.UserAccount) (*models.UserAccount, error)
	GetByTokenHash(ctx context.Context, hash string) (*models.UserAccount, error)
	CountByActivation(ctx context.Context, activationID int64) (int, error)
}
