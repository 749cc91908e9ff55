package follow

import "foodgram/internal/domain/user"

// RecipeBrief is the short recipe card shown in subscription previews.
type RecipeBrief struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Subscription is an author card with a preview of their recipes.
type Subscription struct {
	user.Response
	Recipes      []RecipeBrief `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}
