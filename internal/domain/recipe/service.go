package recipe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"foodgram/internal/domain/follow"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/membership"
	"foodgram/internal/domain/tag"
	"foodgram/internal/logger"
	"foodgram/internal/metrics"
	"foodgram/internal/pkg/storage"
)

const imagePrefix = "recipes/images"

type IngredientAmount struct {
	ID     int64
	Amount int
}

type CreateInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
	Tags        []int64
}

// UpdateInput holds a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Ingredients *[]IngredientAmount
	Tags        *[]int64
}

type Service struct {
	repo          *Repository
	ingredients   *ingredient.Repository
	tags          *tag.Repository
	images        storage.Storage
	maxImageBytes int64
}

func NewService(
	repo *Repository,
	ingredients *ingredient.Repository,
	tags *tag.Repository,
	images storage.Storage,
	maxImageBytes int64,
) *Service {
	return &Service{
		repo:          repo,
		ingredients:   ingredients,
		tags:          tags,
		images:        images,
		maxImageBytes: maxImageBytes,
	}
}

func (s *Service) Create(ctx context.Context, authorID int64, in CreateInput) (*Recipe, error) {
	if in.CookingTime < 1 {
		return nil, ErrInvalidCookingTime
	}
	if in.Image == "" {
		return nil, ErrImageRequired
	}
	items, err := s.checkIngredients(ctx, in.Ingredients)
	if err != nil {
		return nil, err
	}
	tagIDs, err := s.checkTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	url, err := storage.SaveImage(ctx, s.images, imagePrefix, in.Image, s.maxImageBytes)
	if err != nil {
		return nil, err
	}

	rec := &Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		Image:       url,
		CookingTime: in.CookingTime,
	}
	if err := s.repo.Create(ctx, rec, items, tagIDs); err != nil {
		s.dropImage(ctx, url)
		return nil, err
	}
	logger.Info("recipe created", zap.Int64("recipe_id", rec.ID), zap.Int64("author_id", authorID))
	return s.repo.GetByID(ctx, rec.ID)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Recipe, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if in.Name != nil {
		columns["name"] = *in.Name
	}
	if in.Text != nil {
		columns["text"] = *in.Text
	}
	if in.CookingTime != nil {
		if *in.CookingTime < 1 {
			return nil, ErrInvalidCookingTime
		}
		columns["cooking_time"] = *in.CookingTime
	}

	var items *[]IngredientInRecipe
	if in.Ingredients != nil {
		checked, err := s.checkIngredients(ctx, *in.Ingredients)
		if err != nil {
			return nil, err
		}
		items = &checked
	}
	var tagIDs *[]int64
	if in.Tags != nil {
		checked, err := s.checkTags(ctx, *in.Tags)
		if err != nil {
			return nil, err
		}
		tagIDs = &checked
	}

	newImage := ""
	if in.Image != nil {
		if *in.Image == "" {
			return nil, ErrImageRequired
		}
		newImage, err = storage.SaveImage(ctx, s.images, imagePrefix, *in.Image, s.maxImageBytes)
		if err != nil {
			return nil, err
		}
		columns["image"] = newImage
	}

	if err := s.repo.Update(ctx, id, columns, items, tagIDs); err != nil {
		if newImage != "" {
			s.dropImage(ctx, newImage)
		}
		return nil, err
	}
	if newImage != "" {
		s.dropImage(ctx, current.Image)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("recipe deleted", zap.Int64("recipe_id", id))
	s.dropImage(ctx, current.Image)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]Recipe, int64, error) {
	if f.Viewer == 0 {
		f.FavoritedOnly, f.InCartOnly = false, false
	}
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) AddFavorite(ctx context.Context, userID, recipeID int64) (*follow.RecipeBrief, error) {
	return s.add(ctx, "favorites", s.repo.Favorites(), userID, recipeID, ErrAlreadyFavorited)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.remove(ctx, "favorites", s.repo.Favorites(), userID, recipeID, ErrNotFavorited)
}

func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (*follow.RecipeBrief, error) {
	return s.add(ctx, "shopping_cart", s.repo.Cart(), userID, recipeID, ErrAlreadyInCart)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return s.remove(ctx, "shopping_cart", s.repo.Cart(), userID, recipeID, ErrNotInCart)
}

type edgeSet interface {
	Add(ctx context.Context, owner, target int64) error
	Remove(ctx context.Context, owner, target int64) error
}

func (s *Service) add(ctx context.Context, name string, set edgeSet, userID, recipeID int64, dup error) (*follow.RecipeBrief, error) {
	brief, err := s.repo.Brief(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	err = set.Add(ctx, userID, recipeID)
	metrics.MembershipChanges.WithLabelValues(name, "add", membership.Outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, membership.ErrDuplicate) {
			return nil, dup
		}
		return nil, err
	}
	return brief, nil
}

func (s *Service) remove(ctx context.Context, name string, set edgeSet, userID, recipeID int64, missing error) error {
	if _, err := s.repo.Brief(ctx, recipeID); err != nil {
		return err
	}
	err := set.Remove(ctx, userID, recipeID)
	metrics.MembershipChanges.WithLabelValues(name, "remove", membership.Outcome(err)).Inc()
	if errors.Is(err, membership.ErrNotFound) {
		return missing
	}
	return err
}

// checkIngredients requires a non-empty list of distinct, existing
// ingredients with positive amounts. Errors name the offending ingredient.
func (s *Service) checkIngredients(ctx context.Context, in []IngredientAmount) ([]IngredientInRecipe, error) {
	if len(in) == 0 {
		return nil, ErrNoIngredients
	}

	ids := make([]int64, 0, len(in))
	seen := make(map[int64]bool, len(in))
	for _, it := range in {
		if !seen[it.ID] {
			seen[it.ID] = true
			ids = append(ids, it.ID)
		}
	}
	found, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]ingredient.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	out := make([]IngredientInRecipe, 0, len(in))
	used := make(map[int64]bool, len(in))
	for _, it := range in {
		ing, ok := byID[it.ID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, it.ID)
		}
		if used[it.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIngredient, ing.Name)
		}
		used[it.ID] = true
		if it.Amount < 1 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, ing.Name)
		}
		out = append(out, IngredientInRecipe{IngredientID: it.ID, Amount: it.Amount})
	}
	return out, nil
}

func (s *Service) checkTags(ctx context.Context, in []int64) ([]int64, error) {
	if len(in) == 0 {
		return []int64{}, nil
	}
	seen := make(map[int64]bool, len(in))
	for _, id := range in {
		if seen[id] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateTag, id)
		}
		seen[id] = true
	}
	found, err := s.tags.GetByIDs(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(found) != len(in) {
		exists := make(map[int64]bool, len(found))
		for _, t := range found {
			exists[t.ID] = true
		}
		for _, id := range in {
			if !exists[id] {
				return nil, fmt.Errorf("%w: id %d", ErrTagNotFound, id)
			}
		}
	}
	return in, nil
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Warn("failed to delete recipe image", zap.String("url", url), zap.Error(err))
	}
}
