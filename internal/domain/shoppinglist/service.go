package shoppinglist

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/domain/recipe"
)

const itemColumns = "ingredient_in_recipes.ingredient_id AS ingredient_id, " +
	"ingredients.name AS name, " +
	"ingredients.measurement_unit AS unit, " +
	"ingredient_in_recipes.amount AS amount"

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Build aggregates every ingredient of every recipe in userID's cart.
func (s *Service) Build(ctx context.Context, userID int64) ([]Line, error) {
	var items []Item
	err := s.db.WithContext(ctx).
		Model(&recipe.ShoppingCartEntry{}).
		Select(itemColumns).
		Joins("JOIN ingredient_in_recipes ON ingredient_in_recipes.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_in_recipes.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return Aggregate(items), nil
}
