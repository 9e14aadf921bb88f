package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/imagex"
	"github.com/dmitrijs2005/foodrecipe/internal/server/changes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/ingredientlist"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ClientPreviewLimit is how many recipes a client without an activated
// installation gets.
const ClientPreviewLimit = 10

// RecipeInput carries the fields of a recipe form.
type RecipeInput struct {
	Name         string
	Instructions string
	CategoryID   int64
	// NeedsAuth is left unchanged on update when nil. New recipes default
	// to true.
	NeedsAuth   *bool
	Ingredients []ingredientlist.Item
	// Pictures are raw uploads in any supported format.
	Pictures []io.Reader
}

// RecipeUpdate is a RecipeInput plus the ids of existing pictures to keep.
// Pictures of the recipe not listed here are deleted.
type RecipeUpdate struct {
	RecipeInput
	KeepPictures []uuid.UUID
}

type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	changes     *changes.Tracker
	now         func() time.Time
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, tracker *changes.Tracker) *RecipeService {
	return &RecipeService{db: db, repomanager: m, changes: tracker, now: time.Now}
}

func (in *RecipeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &common.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return &common.ValidationError{Field: "instructions", Reason: "must not be empty"}
	}
	if in.CategoryID <= 0 {
		return &common.ValidationError{Field: "category", Reason: "must be a positive id"}
	}
	return nil
}

// optimizePictures converts every upload before a transaction is opened so
// the row locks are not held while images are resized.
func optimizePictures(uploads []io.Reader) ([][]byte, error) {
	result := make([][]byte, 0, len(uploads))
	for i, r := range uploads {
		data, err := imagex.OptimizePicture(r)
		if err != nil {
			if errors.Is(err, imagex.ErrDecode) {
				return nil, &common.ValidationError{Field: "pictures", Reason: fmt.Sprintf("file %d is not a supported image", i+1)}
			}
			return nil, fmt.Errorf("error optimizing picture: %w", err)
		}
		result = append(result, data)
	}
	return result, nil
}

// details loads a recipe with its ingredients and picture ids.
func (s *RecipeService) details(ctx context.Context, db dbx.DBTX, id int64) (*models.RecipeDetails, error) {
	d, err := s.repomanager.Recipes(db).GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, db, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *RecipeService) fill(ctx context.Context, db dbx.DBTX, d *models.RecipeDetails) error {
	lines, err := s.repomanager.RecipeIngredients(db).ListByRecipe(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("error loading ingredients of recipe %d: %w", d.ID, err)
	}
	pics, err := s.repomanager.Pictures(db).ListIDsByRecipe(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("error loading pictures of recipe %d: %w", d.ID, err)
	}
	d.Ingredients = lines
	d.Pictures = pics
	return nil
}

func (s *RecipeService) list(ctx context.Context, limit int) ([]models.RecipeDetails, error) {
	list, err := s.repomanager.Recipes(s.db).List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	for i := range list {
		if err := s.fill(ctx, s.db, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// List returns every recipe ordered by id.
func (s *RecipeService) List(ctx context.Context) ([]models.RecipeDetails, error) {
	return s.list(ctx, 0)
}

// ListForClient returns every recipe to an activated installation and the
// first ClientPreviewLimit recipes to anyone else.
func (s *RecipeService) ListForClient(ctx context.Context, activated bool) ([]models.RecipeDetails, error) {
	if activated {
		return s.list(ctx, 0)
	}
	return s.list(ctx, ClientPreviewLimit)
}

func (s *RecipeService) Get(ctx context.Context, id int64) (*models.RecipeDetails, error) {
	return s.details(ctx, s.db, id)
}

func (s *RecipeService) addPictures(ctx context.Context, tx dbx.DBTX, recipeID int64, pictures [][]byte) error {
	repo := s.repomanager.Pictures(tx)
	for _, data := range pictures {
		if err := repo.Create(ctx, &models.Picture{RecipeID: recipeID, ImageData: data}); err != nil {
			return fmt.Errorf("error saving picture: %w", err)
		}
	}
	return nil
}

// addIngredients stores the recipe lines and remembers each unit as the
// ingredient's last used one.
func (s *RecipeService) addIngredients(ctx context.Context, tx dbx.DBTX, recipeID int64, items []ingredientlist.Item) error {
	lines := s.repomanager.RecipeIngredients(tx)
	units := s.repomanager.IngredientUnits(tx)
	for _, it := range items {
		ri := &models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: it.IngredientID,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
		}
		if err := lines.Add(ctx, ri); err != nil {
			return err
		}
		if err := units.Upsert(ctx, it.IngredientID, it.Unit); err != nil {
			return err
		}
	}
	return nil
}

// Create stores a recipe with its pictures and ingredients in one
// transaction.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (*models.RecipeDetails, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	pictures, err := optimizePictures(in.Pictures)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	recipe := &models.Recipe{
		Name:         strings.TrimSpace(in.Name),
		Instructions: in.Instructions,
		CreatedAt:    now,
		UpdatedAt:    now,
		NeedsAuth:    true,
		CategoryID:   in.CategoryID,
	}
	if in.NeedsAuth != nil {
		recipe.NeedsAuth = *in.NeedsAuth
	}

	var result *models.RecipeDetails
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Recipes(tx).Create(ctx, recipe)
		if err != nil {
			return err
		}
		if err := s.addPictures(ctx, tx, created.ID, pictures); err != nil {
			return err
		}
		if err := s.addIngredients(ctx, tx, created.ID, in.Ingredients); err != nil {
			return err
		}
		result, err = s.details(ctx, tx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.changes.Mark()
	return result, nil
}

// Update replaces the recipe fields and ingredients, drops pictures not in
// KeepPictures and adds the new uploads.
func (s *RecipeService) Update(ctx context.Context, id int64, in RecipeUpdate) (*models.RecipeDetails, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	pictures, err := optimizePictures(in.Pictures)
	if err != nil {
		return nil, err
	}

	keep := make(map[uuid.UUID]struct{}, len(in.KeepPictures))
	for _, p := range in.KeepPictures {
		keep[p] = struct{}{}
	}

	var result *models.RecipeDetails
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recipes := s.repomanager.Recipes(tx)

		recipe, err := recipes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		recipe.Name = strings.TrimSpace(in.Name)
		recipe.Instructions = in.Instructions
		recipe.CategoryID = in.CategoryID
		if in.NeedsAuth != nil {
			recipe.NeedsAuth = *in.NeedsAuth
		}
		recipe.UpdatedAt = s.now().UTC()

		if err := recipes.Update(ctx, recipe); err != nil {
			return err
		}

		if err := s.repomanager.RecipeIngredients(tx).DeleteByRecipe(ctx, id); err != nil {
			return err
		}
		if err := s.addIngredients(ctx, tx, id, in.Ingredients); err != nil {
			return err
		}

		pics := s.repomanager.Pictures(tx)
		existing, err := pics.ListIDsByRecipe(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if _, ok := keep[p]; ok {
				continue
			}
			if err := pics.Delete(ctx, p); err != nil {
				return err
			}
		}
		if err := s.addPictures(ctx, tx, id, pictures); err != nil {
			return err
		}

		result, err = s.details(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.changes.Mark()
	return result, nil
}

func (s *RecipeService) SetNeedsAuth(ctx context.Context, id int64, needsAuth bool) error {
	if err := s.repomanager.Recipes(s.db).SetNeedsAuth(ctx, id, needsAuth); err != nil {
		return err
	}
	s.changes.Mark()
	return nil
}

// Delete removes the recipe with its pictures and ingredient lines.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Pictures(tx).DeleteByRecipe(ctx, id); err != nil {
			return err
		}
		if err := s.repomanager.RecipeIngredients(tx).DeleteByRecipe(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Recipes(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.changes.Mark()
	return nil
}

// GetPicture returns the JPEG bytes of a picture.
func (s *RecipeService) GetPicture(ctx context.Context, id uuid.UUID) ([]byte, error) {
	p, err := s.repomanager.Pictures(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ImageData, nil
}

// LastChange is the time of the latest recipe mutation seen by this process.
func (s *RecipeService) LastChange() time.Time {
	return s.changes.Last()
}
