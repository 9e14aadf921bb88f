// Package ingredientlist parses the ingredient list sent with recipe forms.
//
// Two encodings are accepted:
//
//	4,200,gram;7,1,pinch
//	[{"ingredient_id":4,"qty":200,"unit":"gram"}]
package ingredientlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/models"
	"github.com/goccy/go-json"
)

type Item struct {
	IngredientID int64       `json:"ingredient_id"`
	Quantity     int         `json:"qty"`
	Unit         models.Unit `json:"unit"`
}

// ParseError points at the offending entry. It matches common.ErrorValidation.
type ParseError struct {
	Index  int // zero-based; -1 when the whole input is malformed
	Entry  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return "ingredients: " + e.Reason
	}
	return fmt.Sprintf("ingredients: entry %d (%q): %s", e.Index+1, e.Entry, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Parse decodes s. Blank input and empty ";" segments yield no items.
func Parse(s string) ([]Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []Item{}, nil
	}
	if strings.HasPrefix(s, "[") {
		return parseJSON(s)
	}
	return parseDelimited(s)
}

func parseDelimited(s string) ([]Item, error) {
	items := make([]Item, 0)
	for i, raw := range strings.Split(s, ";") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ",")
		if len(parts) != 3 {
			return nil, &ParseError{Index: i, Entry: entry, Reason: "want ingredient_id,quantity,unit"}
		}

		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, &ParseError{Index: i, Entry: entry, Reason: "ingredient id is not an integer"}
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, &ParseError{Index: i, Entry: entry, Reason: "quantity is not an integer"}
		}

		item, perr := validate(i, entry, Item{IngredientID: id, Quantity: qty, Unit: models.Unit(strings.TrimSpace(parts[2]))})
		if perr != nil {
			return nil, perr
		}
		items = append(items, item)
	}
	return items, nil
}

func parseJSON(s string) ([]Item, error) {
	var raw []Item
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, &ParseError{Index: -1, Reason: "malformed JSON: " + err.Error()}
	}

	items := make([]Item, 0, len(raw))
	for i, it := range raw {
		entry := fmt.Sprintf("%d,%d,%s", it.IngredientID, it.Quantity, it.Unit)
		item, perr := validate(i, entry, it)
		if perr != nil {
			return nil, perr
		}
		items = append(items, item)
	}
	return items, nil
}

func validate(i int, entry string, it Item) (Item, *ParseError) {
	if it.IngredientID <= 0 {
		return Item{}, &ParseError{Index: i, Entry: entry, Reason: "ingredient id must be positive"}
	}
	if it.Quantity <= 0 {
		return Item{}, &ParseError{Index: i, Entry: entry, Reason: "quantity must be positive"}
	}
	u, err := models.ParseUnit(string(it.Unit))
	if err != nil {
		return Item{}, &ParseError{Index: i, Entry: entry, Reason: err.Error()}
	}
	it.Unit = u
	return it, nil
}
