package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IngredientUnit remembers the unit last used with an ingredient.
type IngredientUnit struct {
	IngredientID int64 `json:"ingredient_id"`
	Unit         Unit  `json:"unit"`
}
