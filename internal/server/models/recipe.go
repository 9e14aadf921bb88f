package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID           int64
	Name         string
	Instructions string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NeedsAuth    bool
	CategoryID   int64
}

type RecipeIngredient struct {
	ID           int64
	RecipeID     int64
	IngredientID int64
	Quantity     int
	Unit         Unit
}

// Picture holds an optimized JPEG. ImageData is nil for rows imported from
// the old file-based storage that have not been migrated yet; LegacyName is
// the file name they had there.
type Picture struct {
	ID         uuid.UUID
	RecipeID   int64
	ImageData  []byte
	LegacyName string
}

// IngredientLine is one ingredient of a recipe with the ingredient resolved.
type IngredientLine struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   int        `json:"qty"`
	Unit       Unit       `json:"unit"`
}

// RecipeDetails is the enriched representation returned by read endpoints.
type RecipeDetails struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Instructions string           `json:"instructions"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	NeedsAuth    bool             `json:"needs_auth"`
	Category     Category         `json:"category"`
	Ingredients  []IngredientLine `json:"ingredients"`
	Pictures     []uuid.UUID      `json:"pictures"`
}
