package recipe

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")

	ErrNoIngredients       = errors.New("at least one ingredient is required")
	ErrDuplicateIngredient = errors.New("ingredient is listed more than once")
	ErrInvalidAmount       = errors.New("amount must be at least 1")
	ErrIngredientNotFound  = errors.New("ingredient does not exist")
	ErrDuplicateTag        = errors.New("tag is listed more than once")
	ErrTagNotFound         = errors.New("tag does not exist")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1 minute")
	ErrImageRequired       = errors.New("image is required")

	ErrAlreadyFavorited = errors.New("recipe is already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart    = errors.New("recipe is already in the shopping cart")
	ErrNotInCart        = errors.New("recipe is not in the shopping cart")
)
