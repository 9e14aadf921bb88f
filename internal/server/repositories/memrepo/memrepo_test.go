package memrepo

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	m := New()

	c, err := m.Categories(nil).Create(ctx, "Soups")
	require.NoError(t, err)
	i, err := m.Ingredients(nil).Create(ctx, "salt")
	require.NoError(t, err)

	r, err := m.Recipes(nil).Create(ctx, &models.Recipe{Name: "borscht", CategoryID: c.ID})
	require.NoError(t, err)
	require.NoError(t, m.RecipeIngredients(nil).Add(ctx, &models.RecipeIngredient{RecipeID: r.ID, IngredientID: i.ID, Quantity: 1, Unit: models.UnitPinch}))
	require.NoError(t, m.Pictures(nil).Create(ctx, &models.Picture{RecipeID: r.ID, ImageData: []byte{1}}))

	require.NoError(t, m.Categories(nil).Delete(ctx, c.ID))

	assert.Empty(t, m.RecipeRows)
	assert.Empty(t, m.Lines)
	assert.Empty(t, m.PictureRows)
}

func TestForeignKeysAndDuplicates(t *testing.T) {
	ctx := context.Background()
	m := New()

	_, err := m.Recipes(nil).Create(ctx, &models.Recipe{Name: "x", CategoryID: 42})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = m.Ingredients(nil).Create(ctx, "salt")
	require.NoError(t, err)
	_, err = m.Ingredients(nil).Create(ctx, "salt")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	err = m.RecipeIngredients(nil).Add(ctx, &models.RecipeIngredient{RecipeID: 1, IngredientID: 99})
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ingredient", nf.Entity)
}
