// Package memrepo is an in-memory RepositoryManager for tests of code built on
// top of the repositories. It mirrors the constraint behaviour of the
// PostgreSQL repositories (not found, duplicates, foreign keys, cascades) but
// ignores the DBTX it is given, so a rolled back transaction is not undone.
package memrepo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/dbx"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/activations"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/admins"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/categories"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/ingredientunits"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/pictures"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/foodrecipe/internal/server/repositories/useraccounts"
	"github.com/google/uuid"
)

// Manager holds every table in memory. The zero value is not usable; call New.
type Manager struct {
	mu     sync.Mutex
	nextID int64

	CategoryRows       map[int64]models.Category
	IngredientRows     map[int64]models.Ingredient
	Units              map[int64]models.Unit
	RecipeRows         map[int64]models.Recipe
	Lines              []models.RecipeIngredient
	PictureRows        []models.Picture
	AdminRows          map[string]models.AdminAccount
	ActivationRows     map[int64]models.AppActivation
	Accounts           []models.UserAccount
	MigrationsApplied  int
	MigrationsRollback int

	// Fail makes the named operation, e.g. "Recipes.Create", return the error.
	Fail map[string]error
}

func New() *Manager {
	return &Manager{
		CategoryRows:   map[int64]models.Category{},
		IngredientRows: map[int64]models.Ingredient{},
		Units:          map[int64]models.Unit{},
		RecipeRows:     map[int64]models.Recipe{},
		AdminRows:      map[string]models.AdminAccount{},
		ActivationRows: map[int64]models.AppActivation{},
		Fail:           map[string]error{},
	}
}

func (m *Manager) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Manager) fail(op string) error {
	return m.Fail[op]
}

func notFound(entity string, id int64) error {
	return &common.NotFoundError{Entity: entity, ID: strconv.FormatInt(id, 10)}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RunMigrations"); err != nil {
		return err
	}
	m.MigrationsApplied++
	return nil
}

func (m *Manager) ResetMigrations(context.Context, *sql.DB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ResetMigrations"); err != nil {
		return err
	}
	m.MigrationsRollback++
	return nil
}

func (m *Manager) MigrateDown(context.Context, *sql.DB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("MigrateDown"); err != nil {
		return err
	}
	m.MigrationsRollback++
	return nil
}

func (m *Manager) Categories(dbx.DBTX) categories.Repository           { return (*categoryRepo)(m) }
func (m *Manager) Ingredients(dbx.DBTX) ingredients.Repository         { return (*ingredientRepo)(m) }
func (m *Manager) IngredientUnits(dbx.DBTX) ingredientunits.Repository { return (*unitRepo)(m) }
func (m *Manager) Recipes(dbx.DBTX) recipes.Repository                 { return (*recipeRepo)(m) }
func (m *Manager) RecipeIngredients(dbx.DBTX) recipeingredients.Repository {
	return (*lineRepo)(m)
}
func (m *Manager) Pictures(dbx.DBTX) pictures.Repository         { return (*pictureRepo)(m) }
func (m *Manager) Admins(dbx.DBTX) admins.Repository             { return (*adminRepo)(m) }
func (m *Manager) Activations(dbx.DBTX) activations.Repository   { return (*activationRepo)(m) }
func (m *Manager) UserAccounts(dbx.DBTX) useraccounts.Repository { return (*accountRepo)(m) }

// --- categories ---

type categoryRepo Manager

func (r *categoryRepo) List(context.Context) ([]models.Category, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Categories.List"); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(m.CategoryRows))
	for _, c := range m.CategoryRows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) Get(_ context.Context, id int64) (*models.Category, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.CategoryRows[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func (m *Manager) categoryByName(name string) bool {
	for _, c := range m.CategoryRows {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, name string) (*models.Category, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Categories.Create"); err != nil {
		return nil, err
	}
	if m.categoryByName(name) {
		return nil, fmt.Errorf("%w: category %q", common.ErrorAlreadyExists, name)
	}
	c := models.Category{ID: m.id(), Name: name}
	m.CategoryRows[c.ID] = c
	return &c, nil
}

func (r *categoryRepo) CreateIfMissing(_ context.Context, name string) (bool, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Categories.CreateIfMissing"); err != nil {
		return false, err
	}
	if m.categoryByName(name) {
		return false, nil
	}
	id := m.id()
	m.CategoryRows[id] = models.Category{ID: id, Name: name}
	return true, nil
}

func (r *categoryRepo) Update(_ context.Context, id int64, name string) (*models.Category, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.CategoryRows[id]
	if !ok {
		return nil, notFound("category", id)
	}
	if c.Name != name && m.categoryByName(name) {
		return nil, fmt.Errorf("%w: category %q", common.ErrorAlreadyExists, name)
	}
	c.Name = name
	m.CategoryRows[id] = c
	return &c, nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.CategoryRows[id]; !ok {
		return notFound("category", id)
	}
	delete(m.CategoryRows, id)
	for rid, rec := range m.RecipeRows {
		if rec.CategoryID == id {
			m.deleteRecipe(rid)
		}
	}
	return nil
}

// --- ingredients ---

type ingredientRepo Manager

func (r *ingredientRepo) List(context.Context) ([]models.Ingredient, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Ingredient, 0, len(m.IngredientRows))
	for _, i := range m.IngredientRows {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ingredientRepo) Get(_ context.Context, id int64) (*models.Ingredient, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.IngredientRows[id]
	if !ok {
		return nil, notFound("ingredient", id)
	}
	return &i, nil
}

func (m *Manager) ingredientByName(name string) bool {
	for _, i := range m.IngredientRows {
		if i.Name == name {
			return true
		}
	}
	return false
}

func (r *ingredientRepo) Create(_ context.Context, name string) (*models.Ingredient, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingredientByName(name) {
		return nil, fmt.Errorf("%w: ingredient %q", common.ErrorAlreadyExists, name)
	}
	i := models.Ingredient{ID: m.id(), Name: name}
	m.IngredientRows[i.ID] = i
	return &i, nil
}

func (r *ingredientRepo) CreateIfMissing(_ context.Context, name string) (bool, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingredientByName(name) {
		return false, nil
	}
	id := m.id()
	m.IngredientRows[id] = models.Ingredient{ID: id, Name: name}
	return true, nil
}

func (r *ingredientRepo) Update(_ context.Context, id int64, name string) (*models.Ingredient, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.IngredientRows[id]
	if !ok {
		return nil, notFound("ingredient", id)
	}
	if i.Name != name && m.ingredientByName(name) {
		return nil, fmt.Errorf("%w: ingredient %q", common.ErrorAlreadyExists, name)
	}
	i.Name = name
	m.IngredientRows[id] = i
	return &i, nil
}

func (r *ingredientRepo) Delete(_ context.Context, id int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.IngredientRows[id]; !ok {
		return notFound("ingredient", id)
	}
	delete(m.IngredientRows, id)
	delete(m.Units, id)
	kept := m.Lines[:0]
	for _, l := range m.Lines {
		if l.IngredientID != id {
			kept = append(kept, l)
		}
	}
	m.Lines = kept
	return nil
}

// --- ingredient units ---

type unitRepo Manager

func (r *unitRepo) Upsert(_ context.Context, ingredientID int64, unit models.Unit) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("IngredientUnits.Upsert"); err != nil {
		return err
	}
	if _, ok := m.IngredientRows[ingredientID]; !ok {
		return notFound("ingredient", ingredientID)
	}
	m.Units[ingredientID] = unit
	return nil
}

func (r *unitRepo) List(context.Context) ([]models.IngredientUnit, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.IngredientUnit, 0, len(m.Units))
	for id, u := range m.Units {
		out = append(out, models.IngredientUnit{IngredientID: id, Unit: u})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IngredientID < out[j].IngredientID })
	return out, nil
}

// --- recipes ---

type recipeRepo Manager

func (m *Manager) recipeDetails(rec models.Recipe) models.RecipeDetails {
	return models.RecipeDetails{
		ID:           rec.ID,
		Name:         rec.Name,
		Instructions: rec.Instructions,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		NeedsAuth:    rec.NeedsAuth,
		Category:     m.CategoryRows[rec.CategoryID],
	}
}

func (r *recipeRepo) List(_ context.Context, limit int) ([]models.RecipeDetails, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Recipes.List"); err != nil {
		return nil, err
	}
	out := make([]models.RecipeDetails, 0, len(m.RecipeRows))
	for _, rec := range m.RecipeRows {
		out = append(out, m.recipeDetails(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *recipeRepo) GetDetails(_ context.Context, id int64) (*models.RecipeDetails, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.RecipeRows[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	d := m.recipeDetails(rec)
	return &d, nil
}

func (r *recipeRepo) GetForUpdate(_ context.Context, id int64) (*models.Recipe, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.RecipeRows[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	return &rec, nil
}

func (r *recipeRepo) Create(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Recipes.Create"); err != nil {
		return nil, err
	}
	if _, ok := m.CategoryRows[rec.CategoryID]; !ok {
		return nil, notFound("category", rec.CategoryID)
	}
	rec.ID = m.id()
	m.RecipeRows[rec.ID] = *rec
	return rec, nil
}

func (r *recipeRepo) Update(_ context.Context, rec *models.Recipe) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.RecipeRows[rec.ID]; !ok {
		return notFound("recipe", rec.ID)
	}
	if _, ok := m.CategoryRows[rec.CategoryID]; !ok {
		return notFound("category", rec.CategoryID)
	}
	m.RecipeRows[rec.ID] = *rec
	return nil
}

func (r *recipeRepo) SetNeedsAuth(_ context.Context, id int64, needsAuth bool) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.RecipeRows[id]
	if !ok {
		return notFound("recipe", id)
	}
	rec.NeedsAuth = needsAuth
	m.RecipeRows[id] = rec
	return nil
}

func (r *recipeRepo) Delete(_ context.Context, id int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.RecipeRows[id]; !ok {
		return notFound("recipe", id)
	}
	m.deleteRecipe(id)
	return nil
}

func (m *Manager) deleteRecipe(id int64) {
	delete(m.RecipeRows, id)
	lines := m.Lines[:0]
	for _, l := range m.Lines {
		if l.RecipeID != id {
			lines = append(lines, l)
		}
	}
	m.Lines = lines
	pics := m.PictureRows[:0]
	for _, p := range m.PictureRows {
		if p.RecipeID != id {
			pics = append(pics, p)
		}
	}
	m.PictureRows = pics
}

// --- recipe ingredients ---

type lineRepo Manager

func (r *lineRepo) Add(_ context.Context, ri *models.RecipeIngredient) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RecipeIngredients.Add"); err != nil {
		return err
	}
	if _, ok := m.IngredientRows[ri.IngredientID]; !ok {
		return notFound("ingredient", ri.IngredientID)
	}
	ri.ID = m.id()
	m.Lines = append(m.Lines, *ri)
	return nil
}

func (r *lineRepo) DeleteByRecipe(_ context.Context, recipeID int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Lines[:0]
	for _, l := range m.Lines {
		if l.RecipeID != recipeID {
			kept = append(kept, l)
		}
	}
	m.Lines = kept
	return nil
}

func (r *lineRepo) ListByRecipe(_ context.Context, recipeID int64) ([]models.IngredientLine, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.IngredientLine, 0)
	for _, l := range m.Lines {
		if l.RecipeID == recipeID {
			out = append(out, models.IngredientLine{
				Ingredient: m.IngredientRows[l.IngredientID],
				Quantity:   l.Quantity,
				Unit:       l.Unit,
			})
		}
	}
	return out, nil
}

// --- pictures ---

type pictureRepo Manager

func (r *pictureRepo) Create(_ context.Context, p *models.Picture) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Pictures.Create"); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.PictureRows = append(m.PictureRows, *p)
	return nil
}

func (r *pictureRepo) Get(_ context.Context, id uuid.UUID) (*models.Picture, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.PictureRows {
		if p.ID == id && p.ImageData != nil {
			return &p, nil
		}
	}
	return nil, &common.NotFoundError{Entity: "picture", ID: id.String()}
}

func (r *pictureRepo) ListIDsByRecipe(_ context.Context, recipeID int64) ([]uuid.UUID, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uuid.UUID, 0)
	for _, p := range m.PictureRows {
		if p.RecipeID == recipeID {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

func (r *pictureRepo) Delete(_ context.Context, id uuid.UUID) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.PictureRows {
		if p.ID == id {
			m.PictureRows = append(m.PictureRows[:i], m.PictureRows[i+1:]...)
			return nil
		}
	}
	return &common.NotFoundError{Entity: "picture", ID: id.String()}
}

func (r *pictureRepo) DeleteByRecipe(_ context.Context, recipeID int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.PictureRows[:0]
	for _, p := range m.PictureRows {
		if p.RecipeID != recipeID {
			kept = append(kept, p)
		}
	}
	m.PictureRows = kept
	return nil
}

func (r *pictureRepo) ListPendingMigration(context.Context) ([]models.Picture, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Pictures.ListPendingMigration"); err != nil {
		return nil, err
	}
	out := make([]models.Picture, 0)
	for _, p := range m.PictureRows {
		if p.ImageData == nil && p.LegacyName != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *pictureRepo) SetImageData(_ context.Context, id uuid.UUID, data []byte) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Pictures.SetImageData"); err != nil {
		return err
	}
	for i := range m.PictureRows {
		if m.PictureRows[i].ID == id {
			m.PictureRows[i].ImageData = data
			return nil
		}
	}
	return &common.NotFoundError{Entity: "picture", ID: id.String()}
}

// --- admins ---

type adminRepo Manager

func (r *adminRepo) GetByLogin(_ context.Context, login string) (*models.AdminAccount, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Admins.GetByLogin"); err != nil {
		return nil, err
	}
	a, ok := m.AdminRows[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *adminRepo) Upsert(_ context.Context, a *models.AdminAccount) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Admins.Upsert"); err != nil {
		return err
	}
	if old, ok := m.AdminRows[a.Login]; ok {
		a.ID = old.ID
	} else {
		a.ID = m.id()
	}
	m.AdminRows[a.Login] = *a
	return nil
}

// --- activations ---

type activationRepo Manager

func (r *activationRepo) Create(_ context.Context, a *models.AppActivation) (*models.AppActivation, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Activations.Create"); err != nil {
		return nil, err
	}
	for _, old := range m.ActivationRows {
		if old.ActivationCode == a.ActivationCode {
			return nil, fmt.Errorf("%w: activation code", common.ErrorAlreadyExists)
		}
	}
	a.ID = m.id()
	m.ActivationRows[a.ID] = *a
	return a, nil
}

func (r *activationRepo) List(context.Context) ([]models.AppActivation, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AppActivation, 0, len(m.ActivationRows))
	for _, a := range m.ActivationRows {
		a.UserAccountsCount = m.countAccounts(a.ID)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *activationRepo) GetByCodeForUpdate(_ context.Context, code string) (*models.AppActivation, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.ActivationRows {
		if a.ActivationCode == code {
			return &a, nil
		}
	}
	return nil, &common.NotFoundError{Entity: "activation code"}
}

// --- user accounts ---

type accountRepo Manager

func (m *Manager) countAccounts(activationID int64) int {
	n := 0
	for _, u := range m.Accounts {
		if u.AppActivationID == activationID {
			n++
		}
	}
	return n
}

func (r *accountRepo) Create(_ context.Context, u *models.UserAccount) (*models.UserAccount, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UserAccounts.Create"); err != nil {
		return nil, err
	}
	for _, old := range m.Accounts {
		if old.InstallationTokenHash == u.InstallationTokenHash {
			return nil, fmt.Errorf("%w: installation token", common.ErrorAlreadyExists)
		}
	}
	u.ID = m.id()
	m.Accounts = append(m.Accounts, *u)
	return u, nil
}

func (r *accountRepo) GetByTokenHash(_ context.Context, hash string) (*models.UserAccount, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Accounts {
		if u.InstallationTokenHash == hash {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *accountRepo) CountByActivation(_ context.Context, activationID int64) (int, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countAccounts(activationID), nil
}
