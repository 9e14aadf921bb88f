package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
	"github.com/google/uuid"
)

// The handlers depend on these interfaces; package services provides the
// implementations.

type AdminService interface {
	Login(ctx context.Context, login, password string) (string, error)
	Account(ctx context.Context, login string) (*models.AdminAccount, error)
	CreateActivationCode(ctx context.Context, limit, days int, description string) (*models.AppActivation, error)
	ListActivations(ctx context.Context) ([]models.AppActivation, error)
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id int64, name string) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id int64) error

	ListIngredientUnits(ctx context.Context) ([]models.IngredientUnit, error)
}

type RecipeService interface {
	List(ctx context.Context) ([]models.RecipeDetails, error)
	ListForClient(ctx context.Context, activated bool) ([]models.RecipeDetails, error)
	Get(ctx context.Context, id int64) (*models.RecipeDetails, error)
	Create(ctx context.Context, in services.RecipeInput) (*models.RecipeDetails, error)
	Update(ctx context.Context, id int64, in services.RecipeUpdate) (*models.RecipeDetails, error)
	SetNeedsAuth(ctx context.Context, id int64, needsAuth bool) error
	Delete(ctx context.Context, id int64) error
	GetPicture(ctx context.Context, id uuid.UUID) ([]byte, error)
	LastChange() time.Time
}

type ClientService interface {
	Login(ctx context.Context, installationToken string) (string, error)
	Activate(ctx context.Context, code string) (string, error)
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}
