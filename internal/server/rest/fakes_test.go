package rest

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

type fakeAdmins struct {
	roles          map[string]string
	loginFn        func(ctx context.Context, login, password string) (string, error)
	createCodeFn   func(ctx context.Context, limit, days int, description string) (*models.AppActivation, error)
	activations    []models.AppActivation
	activationsErr error
}

func (f *fakeAdmins) Login(ctx context.Context, login, password string) (string, error) {
	if f.loginFn == nil {
		return "", common.ErrorUnauthorized
	}
	return f.loginFn(ctx, login, password)
}

func (f *fakeAdmins) Account(_ context.Context, login string) (*models.AdminAccount, error) {
	role, ok := f.roles[login]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return &models.AdminAccount{ID: 1, Login: login, Role: role}, nil
}

func (f *fakeAdmins) CreateActivationCode(ctx context.Context, limit, days int, description string) (*models.AppActivation, error) {
	return f.createCodeFn(ctx, limit, days, description)
}

func (f *fakeAdmins) ListActivations(context.Context) ([]models.AppActivation, error) {
	return f.activations, f.activationsErr
}

// fakeCatalog keeps categories and ingredients in maps keyed by id.
type fakeCatalog struct {
	categories  map[int64]string
	ingredients map[int64]string
	units       []models.IngredientUnit
	nextID      int64
	err         error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories:  map[int64]string{1: "Soups"},
		ingredients: map[int64]string{1: "Salt"},
		nextID:      10,
	}
}

func (f *fakeCatalog) list(m map[int64]string) []models.Category {
	var out []models.Category
	for id := int64(0); id <= f.nextID; id++ {
		if name, ok := m[id]; ok {
			out = append(out, models.Category{ID: id, Name: name})
		}
	}
	return out
}

func (f *fakeCatalog) create(m map[int64]string, name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if name == "" {
		return 0, &common.ValidationError{Field: "name", Reason: "is required"}
	}
	for _, n := range m {
		if n == name {
			return 0, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	m[f.nextID] = name
	return f.nextID, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return f.list(f.categories), f.err
}

func (f *fakeCatalog) GetCategory(_ context.Context, id int64) (*models.Category, error) {
	name, ok := f.categories[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "category"}
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (f *fakeCatalog) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	id, err := f.create(f.categories, name)
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (f *fakeCatalog) UpdateCategory(_ context.Context, id int64, name string) (*models.Category, error) {
	if _, ok := f.categories[id]; !ok {
		return nil, &common.NotFoundError{Entity: "category"}
	}
	f.categories[id] = name
	return &models.Category{ID: id, Name: name}, nil
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return &common.NotFoundError{Entity: "category"}
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalog) ListIngredients(context.Context) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, c := range f.list(f.ingredients) {
		out = append(out, models.Ingredient{ID: c.ID, Name: c.Name})
	}
	return out, f.err
}

func (f *fakeCatalog) GetIngredient(_ context.Context, id int64) (*models.Ingredient, error) {
	name, ok := f.ingredients[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "ingredient"}
	}
	return &models.Ingredient{ID: id, Name: name}, nil
}

func (f *fakeCatalog) CreateIngredient(_ context.Context, name string) (*models.Ingredient, error) {
	id, err := f.create(f.ingredients, name)
	if err != nil {
		return nil, err
	}
	return &models.Ingredient{ID: id, Name: name}, nil
}

func (f *fakeCatalog) UpdateIngredient(_ context.Context, id int64, name string) (*models.Ingredient, error) {
	if _, ok := f.ingredients[id]; !ok {
		return nil, &common.NotFoundError{Entity: "ingredient"}
	}
	f.ingredients[id] = name
	return &models.Ingredient{ID: id, Name: name}, nil
}

func (f *fakeCatalog) DeleteIngredient(_ context.Context, id int64) error {
	if _, ok := f.ingredients[id]; !ok {
		return &common.NotFoundError{Entity: "ingredient"}
	}
	delete(f.ingredients, id)
	return nil
}

func (f *fakeCatalog) ListIngredientUnits(context.Context) ([]models.IngredientUnit, error) {
	return f.units, f.err
}

// fakeRecipes records the inputs it receives.
type fakeRecipes struct {
	recipes   map[int64]*models.RecipeDetails
	pictures  map[uuid.UUID][]byte
	last      time.Time
	err       error
	created   *services.RecipeInput
	createdN  int // pictures read from the upload
	updated   *services.RecipeUpdate
	needsAuth map[int64]bool
	activated *bool
}

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{
		recipes: map[int64]*models.RecipeDetails{
			7: {ID: 7, Name: "Borscht", NeedsAuth: true, Category: models.Category{ID: 1, Name: "Soups"}},
		},
		pictures:  map[uuid.UUID][]byte{},
		needsAuth: map[int64]bool{},
	}
}

func (f *fakeRecipes) List(context.Context) ([]models.RecipeDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.RecipeDetails
	for _, d := range f.recipes {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRecipes) ListForClient(ctx context.Context, activated bool) ([]models.RecipeDetails, error) {
	f.activated = &activated
	return f.List(ctx)
}

func (f *fakeRecipes) Get(_ context.Context, id int64) (*models.RecipeDetails, error) {
	d, ok := f.recipes[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "recipe"}
	}
	return d, nil
}

func (f *fakeRecipes) Create(_ context.Context, in services.RecipeInput) (*models.RecipeDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &in
	for _, p := range in.Pictures {
		buf := make([]byte, 1)
		if n, _ := p.Read(buf); n > 0 {
			f.createdN++
		}
	}
	d := &models.RecipeDetails{ID: 8, Name: in.Name, Instructions: in.Instructions, Category: models.Category{ID: in.CategoryID}}
	f.recipes[d.ID] = d
	return d, nil
}

func (f *fakeRecipes) Update(_ context.Context, id int64, in services.RecipeUpdate) (*models.RecipeDetails, error) {
	d, ok := f.recipes[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "recipe"}
	}
	f.updated = &in
	d.Name = in.Name
	d.Pictures = in.KeepPictures
	return d, nil
}

func (f *fakeRecipes) SetNeedsAuth(_ context.Context, id int64, needsAuth bool) error {
	if _, ok := f.recipes[id]; !ok {
		return &common.NotFoundError{Entity: "recipe"}
	}
	f.needsAuth[id] = needsAuth
	return nil
}

func (f *fakeRecipes) Delete(_ context.Context, id int64) error {
	if _, ok := f.recipes[id]; !ok {
		return &common.NotFoundError{Entity: "recipe"}
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipes) GetPicture(_ context.Context, id uuid.UUID) ([]byte, error) {
	data, ok := f.pictures[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "picture"}
	}
	return data, nil
}

func (f *fakeRecipes) LastChange() time.Time { return f.last }

type fakeClients struct {
	tokens map[string]string // installation token -> access token
	codes  map[string]error  // activation code -> outcome
}

func (f *fakeClients) Login(_ context.Context, installationToken string) (string, error) {
	if installationToken == "" {
		return "", &common.ValidationError{Field: "installation_token", Reason: "is required"}
	}
	t, ok := f.tokens[installationToken]
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return t, nil
}

func (f *fakeClients) Activate(_ context.Context, code string) (string, error) {
	err, ok := f.codes[code]
	if !ok {
		return "", &common.NotFoundError{Entity: "activation code"}
	}
	if err != nil {
		return "", err
	}
	return "installation-" + code, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
