package recipe

import (
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
)

type IngredientAmountRequest struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount"`
}

type CreateRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"dive"`
	Tags        []int64                   `json:"tags"`
	Image       string                    `json:"image" validate:"required"`
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
}

type UpdateRequest struct {
	Ingredients *[]IngredientAmountRequest `json:"ingredients" validate:"omitempty,dive"`
	Tags        *[]int64                   `json:"tags"`
	Image       *string                    `json:"image"`
	Name        *string                    `json:"name" validate:"omitempty,min=1,max=200"`
	Text        *string                    `json:"text" validate:"omitempty,min=1"`
	CookingTime *int                       `json:"cooking_time" validate:"omitempty,min=1"`
}

func toAmounts(in []IngredientAmountRequest) []IngredientAmount {
	out := make([]IngredientAmount, len(in))
	for i, it := range in {
		out[i] = IngredientAmount{ID: it.ID, Amount: it.Amount}
	}
	return out
}

func (r CreateRequest) Input() CreateInput {
	return CreateInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Ingredients: toAmounts(r.Ingredients),
		Tags:        r.Tags,
	}
}

func (r UpdateRequest) Input() UpdateInput {
	in := UpdateInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Tags:        r.Tags,
	}
	if r.Ingredients != nil {
		amounts := toAmounts(*r.Ingredients)
		in.Ingredients = &amounts
	}
	return in
}

type IngredientLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Response is a recipe as seen by a particular viewer.
type Response struct {
	ID               int64            `json:"id"`
	Tags             []tag.Tag        `json:"tags"`
	Author           user.Response    `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
}
