package recipe

import (
	"time"

	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
)

type Recipe struct {
	ID          int64                `json:"id" gorm:"primaryKey"`
	AuthorID    int64                `json:"author_id" gorm:"not null;index"`
	Author      *user.User           `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Name        string               `json:"name" gorm:"size:200;not null"`
	Text        string               `json:"text" gorm:"type:text;not null"`
	Image       string               `json:"image" gorm:"size:500;not null"`
	CookingTime int                  `json:"cooking_time" gorm:"not null"`
	Ingredients []IngredientInRecipe `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID"`
	Tags        []tag.Tag            `json:"tags,omitempty" gorm:"-"`
	CreatedAt   time.Time            `json:"created_at" gorm:"autoCreateTime"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// IngredientInRecipe is the amount of one ingredient used by a recipe.
type IngredientInRecipe struct {
	ID           int64                  `json:"id" gorm:"primaryKey"`
	RecipeID     int64                  `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64                  `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int                    `json:"amount" gorm:"not null"`
	Ingredient   *ingredient.Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (IngredientInRecipe) TableName() string {
	return "ingredient_in_recipes"
}

type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorites_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCartEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// Models lists every table owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&Recipe{}, &IngredientInRecipe{}, &RecipeTag{}, &Favorite{}, &ShoppingCartEntry{}}
}
