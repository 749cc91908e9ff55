package ingredient

import "errors"

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidRow         = errors.New("invalid ingredient row")
)
