package rest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/dmitrijs2005/foodrecipe/internal/server/ingredientlist"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	name string
	data []byte
}

// multipartRequest builds a recipe form; fields are written in order.
func multipartRequest(t *testing.T, method, path, token string, fields [][2]string, files []upload) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("pictures", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return req
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func recipeFields(extra ...[2]string) [][2]string {
	return append([][2]string{
		{"name", "Pancakes"},
		{"instructions", "Mix and fry"},
		{"category", "1"},
		{"ingredients", "1,200,gram;2,1,pinch"},
	}, extra...)
}

func TestCreateRecipe_Multipart(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/admin/recipes", adminToken(t, "editor"),
		recipeFields([2]string{"needs_auth", "false"}),
		[]upload{{"a.png", []byte("png-a")}, {"b.jpg", []byte("jpg-b")}})
	rec := env.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	d := decodeBody[models.RecipeDetails](t, rec)
	assert.Equal(t, int64(8), d.ID)

	in := env.recipes.created
	require.NotNil(t, in)
	assert.Equal(t, "Pancakes", in.Name)
	assert.Equal(t, "Mix and fry", in.Instructions)
	assert.Equal(t, int64(1), in.CategoryID)
	require.NotNil(t, in.NeedsAuth)
	assert.False(t, *in.NeedsAuth)
	assert.Equal(t, []ingredientlist.Item{
		{IngredientID: 1, Quantity: 200, Unit: models.UnitGram},
		{IngredientID: 2, Quantity: 1, Unit: models.UnitPinch},
	}, in.Ingredients)
	assert.Len(t, in.Pictures, 2)
	assert.Equal(t, 2, env.recipes.createdN)
}

func TestCreateRecipe_URLEncoded(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/recipes",
		strings.NewReader("name=Tea&instructions=Boil&category=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+adminToken(t, "editor"))
	rec := env.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	in := env.recipes.created
	assert.Equal(t, "Tea", in.Name)
	assert.Nil(t, in.NeedsAuth)
	assert.Empty(t, in.Ingredients)
	assert.Empty(t, in.Pictures)
}

func TestCreateRecipe_BadForm(t *testing.T) {
	env := newTestEnv(t)
	tok := adminToken(t, "editor")

	tests := []struct {
		name   string
		fields [][2]string
		want   string
	}{
		{"category not a number", [][2]string{{"name", "x"}, {"category", "soup"}}, "category: must be an integer id"},
		{"needs_auth not bool", [][2]string{{"name", "x"}, {"category", "1"}, {"needs_auth", "maybe"}}, "needs_auth: must be true or false"},
		{"bad ingredient unit", [][2]string{{"name", "x"}, {"category", "1"}, {"ingredients", "1,2,bucket"}}, "ingredients: entry 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(multipartRequest(t, http.MethodPost, "/admin/recipes", tok, tt.fields, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorOf(t, rec), tt.want)
		})
	}
	assert.Nil(t, env.recipes.created)
}

func TestCreateRecipe_TooLarge(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.MaxUploadBytes = 1024 })

	req := multipartRequest(t, http.MethodPost, "/admin/recipes", adminToken(t, "editor"),
		recipeFields(), []upload{{"big.jpg", bytes.Repeat([]byte{1}, 4096)}})
	rec := env.serve(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, env.recipes.created)
}

func TestCreateRecipe_ServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.err = &common.NotFoundError{Entity: "category", ID: "1"}

	rec := env.serve(multipartRequest(t, http.MethodPost, "/admin/recipes", adminToken(t, "editor"), recipeFields(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category 1 not found", errorOf(t, rec))
}

func TestUpdateRecipe_KeepPictures(t *testing.T) {
	env := newTestEnv(t)
	keep := uuid.New()

	req := multipartRequest(t, http.MethodPut, "/admin/recipes/7", adminToken(t, "editor"),
		recipeFields([2]string{"pics_to_remain", `["` + keep.String() + `"]`}),
		[]upload{{"new.png", []byte("new")}})
	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	up := env.recipes.updated
	require.NotNil(t, up)
	assert.Equal(t, []uuid.UUID{keep}, up.KeepPictures)
	assert.Len(t, up.Pictures, 1)
	assert.Equal(t, "Pancakes", decodeBody[models.RecipeDetails](t, rec).Name)
}

func TestUpdateRecipe_Errors(t *testing.T) {
	env := newTestEnv(t)
	tok := adminToken(t, "editor")

	rec := env.serve(multipartRequest(t, http.MethodPut, "/admin/recipes/99", tok, recipeFields(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.serve(multipartRequest(t, http.MethodPut, "/admin/recipes/7", tok,
		recipeFields([2]string{"pics_to_remain", "not-a-uuid"}), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "pics_to_remain")
}

func TestGetAndListRecipes(t *testing.T) {
	env := newTestEnv(t)
	tok := adminToken(t, "editor")

	rec := env.do(t, http.MethodGet, "/admin/recipes/7", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Borscht", decodeBody[models.RecipeDetails](t, rec).Name)

	rec = env.do(t, http.MethodGet, "/admin/recipes", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.RecipeDetails](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/admin/recipes/8", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeRecipeAuth(t *testing.T) {
	env := newTestEnv(t)
	tok := adminToken(t, "editor")

	rec := env.do(t, http.MethodPut, "/admin/recipes/7/change-auth", tok, map[string]bool{"needs_auth": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Body.String())
	v, ok := env.recipes.needsAuth[7]
	assert.True(t, ok)
	assert.False(t, v)

	rec = env.do(t, http.MethodPut, "/admin/recipes/7/change-auth", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "needs_auth: is required", errorOf(t, rec))

	rec = env.do(t, http.MethodPut, "/admin/recipes/99/change-auth", tok, map[string]bool{"needs_auth": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRecipe(t *testing.T) {
	env := newTestEnv(t)
	tok := adminToken(t, "editor")

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/admin/recipes/7", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/admin/recipes/7", tok, nil).Code)
}

func TestGetPicture(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.recipes.pictures[id] = []byte{0xff, 0xd8, 0xff}

	for _, prefix := range []string{"/pictures/", "/admin/pictures/"} {
		t.Run(prefix, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, prefix+id.String(), "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
			assert.Equal(t, []byte{0xff, 0xd8, 0xff}, rec.Body.Bytes())

			assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, prefix+uuid.NewString(), "", nil).Code)
			assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, prefix+"12", "", nil).Code)
		})
	}
}
