package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/changes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
)

// DefaultCategories are seeded by the management CLI.
var DefaultCategories = []string{
	"Desserts", "Bakery", "Breakfasts", "Snacks", "Soups", "Main Courses", "Salads", "Dinners",
}

// CatalogService manages categories and ingredients. Renames and deletions
// change what clients see in recipes, so they mark the change tracker.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	changes     *changes.Tracker
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, tracker *changes.Tracker) *CatalogService {
	return &CatalogService{db: db, repomanager: m, changes: tracker}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &common.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return name, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.repomanager.Categories(s.db).Get(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Categories(s.db).Create(ctx, name)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.repomanager.Categories(s.db).Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.changes.Mark()
	return c, nil
}

// DeleteCategory removes the category together with its recipes.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repomanager.Categories(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Mark()
	return nil
}

// SeedCategories inserts DefaultCategories that are not there yet and
// returns how many were added.
func (s *CatalogService) SeedCategories(ctx context.Context) (int, error) {
	added := 0
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Categories(tx)
		for _, name := range DefaultCategories {
			ok, err := repo.CreateIfMissing(ctx, name)
			if err != nil {
				return fmt.Errorf("error seeding category %q: %w", name, err)
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.repomanager.Ingredients(s.db).List(ctx)
}

func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.repomanager.Ingredients(s.db).Get(ctx, id)
}

func (s *CatalogService) CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Ingredients(s.db).Create(ctx, name)
}

func (s *CatalogService) UpdateIngredient(ctx context.Context, id int64, name string) (*models.Ingredient, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	i, err := s.repomanager.Ingredients(s.db).Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.changes.Mark()
	return i, nil
}

// DeleteIngredient removes the ingredient, its recipe lines and its
// remembered unit.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id int64) error {
	if err := s.repomanager.Ingredients(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Mark()
	return nil
}

// ListIngredientUnits returns the unit last used with each ingredient.
func (s *CatalogService) ListIngredientUnits(ctx context.Context) ([]models.IngredientUnit, error) {
	return s.repomanager.IngredientUnits(s.db).List(ctx)
}
