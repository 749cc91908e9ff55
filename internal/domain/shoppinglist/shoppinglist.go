// Package shoppinglist turns a user's shopping cart into a per-ingredient
// purchase list.
package shoppinglist

import (
	"cmp"
	"slices"
)

// Item is one ingredient row of one recipe in the cart.
type Item struct {
	IngredientID int64
	Name         string
	Unit         string
	Amount       int64
}

// Line is the total amount of one ingredient across the cart.
type Line struct {
	IngredientID int64  `json:"ingredient_id"`
	Name         string `json:"name"`
	Total        int64  `json:"total_amount"`
	Unit         string `json:"measurement_unit"`
}

// Aggregate sums amounts per ingredient. Lines are ordered by name, then
// unit, then ingredient id, whatever the order of items.
func Aggregate(items []Item) []Line {
	byID := make(map[int64]*Line, len(items))
	for _, it := range items {
		if l, ok := byID[it.IngredientID]; ok {
			l.Total += it.Amount
			continue
		}
		byID[it.IngredientID] = &Line{
			IngredientID: it.IngredientID,
			Name:         it.Name,
			Unit:         it.Unit,
			Total:        it.Amount,
		}
	}

	lines := make([]Line, 0, len(byID))
	for _, l := range byID {
		lines = append(lines, *l)
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Unit, b.Unit),
			cmp.Compare(a.IngredientID, b.IngredientID),
		)
	})
	return lines
}
