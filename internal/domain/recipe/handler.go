package recipe

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/pkg/validator"
)

type Handler struct {
	service       *Service
	subscriptions user.SubscriptionChecker
	pageSize      int
	maxPageSize   int
}

func NewHandler(service *Service, subscriptions user.SubscriptionChecker, pageSize, maxPageSize int) *Handler {
	return &Handler{
		service:       service,
		subscriptions: subscriptions,
		pageSize:      pageSize,
		maxPageSize:   maxPageSize,
	}
}

// List godoc
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param author query int false "author id"
// @Param tags query []string false "tag slugs" collectionFormat(multi)
// @Param is_favorited query int false "1 to list favorites only"
// @Param is_in_shopping_cart query int false "1 to list cart only"
// @Router /recipes/ [get]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	p := pagination.FromQuery(c, h.pageSize, h.maxPageSize)

	f := Filter{
		TagSlugs:      c.QueryArray("tags"),
		Viewer:        middleware.CurrentUserID(c),
		FavoritedOnly: queryFlag(c, "is_favorited"),
		InCartOnly:    queryFlag(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Validation(c, map[string]string{"author": "A valid integer is required."})
			return
		}
		f.AuthorID = author
	}

	recipes, total, err := h.service.List(ctx, f, p.Limit, p.Offset())
	if err != nil {
		response.Internal(c, err)
		return
	}
	items, err := h.present(ctx, f.Viewer, recipes)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.New(c, p, total, items))
}

// Get godoc
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Router /recipes/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, rec)
}

// Create godoc
// @Summary Create a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateRequest true "recipe"
// @Success 201 {object} Response
// @Router /recipes/ [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.Validation(c, errs)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusCreated, rec)
}

// Update godoc
// @Summary Update a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param body body UpdateRequest true "changed fields"
// @Router /recipes/{id}/ [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.Validation(c, errs)
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Router /recipes/{id}/ [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddFavorite(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	brief, err := h.service.AddFavorite(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brief)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveFavorite(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddToCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	brief, err := h.service.AddToCart(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brief)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveFromCart(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respond(c *gin.Context, status int, rec *Recipe) {
	items, err := h.present(c.Request.Context(), middleware.CurrentUserID(c), []Recipe{*rec})
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, status, items[0])
}

// present attaches the viewer-dependent flags to recipes.
func (h *Handler) present(ctx context.Context, viewer int64, recipes []Recipe) ([]Response, error) {
	favorited := map[int64]bool{}
	inCart := map[int64]bool{}
	subscribed := map[int64]bool{}

	if viewer != 0 && len(recipes) > 0 {
		ids := make([]int64, len(recipes))
		authors := make([]int64, len(recipes))
		for i := range recipes {
			ids[i] = recipes[i].ID
			authors[i] = recipes[i].AuthorID
		}
		var err error
		if favorited, err = h.service.repo.Favorites().ContainsAny(ctx, viewer, ids); err != nil {
			return nil, err
		}
		if inCart, err = h.service.repo.Cart().ContainsAny(ctx, viewer, ids); err != nil {
			return nil, err
		}
		if h.subscriptions != nil {
			if subscribed, err = h.subscriptions.SubscribedAmong(ctx, viewer, authors); err != nil {
				return nil, err
			}
		}
	}

	out := make([]Response, len(recipes))
	for i := range recipes {
		rec := &recipes[i]
		lines := make([]IngredientLine, 0, len(rec.Ingredients))
		for _, it := range rec.Ingredients {
			line := IngredientLine{ID: it.IngredientID, Amount: it.Amount}
			if it.Ingredient != nil {
				line.Name = it.Ingredient.Name
				line.MeasurementUnit = it.Ingredient.MeasurementUnit
			}
			lines = append(lines, line)
		}

		var author user.Response
		if rec.Author != nil {
			author = user.ToResponse(rec.Author, subscribed[rec.AuthorID])
		}
		out[i] = Response{
			ID:               rec.ID,
			Tags:             rec.Tags,
			Author:           author,
			Ingredients:      lines,
			IsFavorited:      favorited[rec.ID],
			IsInShoppingCart: inCart[rec.ID],
			Name:             rec.Name,
			Image:            rec.Image,
			Text:             rec.Text,
			CookingTime:      rec.CookingTime,
		}
	}
	return out, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRecipeNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Recipe not found")
	case errors.Is(err, ErrAlreadyFavorited):
		response.Error(c, http.StatusBadRequest, "ALREADY_IN_FAVORITES", err.Error())
	case errors.Is(err, ErrNotFavorited):
		response.Error(c, http.StatusBadRequest, "NOT_IN_FAVORITES", err.Error())
	case errors.Is(err, ErrAlreadyInCart):
		response.Error(c, http.StatusBadRequest, "ALREADY_IN_SHOPPING_CART", err.Error())
	case errors.Is(err, ErrNotInCart):
		response.Error(c, http.StatusBadRequest, "NOT_IN_SHOPPING_CART", err.Error())
	case errors.Is(err, ErrNoIngredients),
		errors.Is(err, ErrDuplicateIngredient),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrIngredientNotFound):
		response.Validation(c, map[string]string{"ingredients": err.Error()})
	case errors.Is(err, ErrDuplicateTag), errors.Is(err, ErrTagNotFound):
		response.Validation(c, map[string]string{"tags": err.Error()})
	case errors.Is(err, ErrInvalidCookingTime):
		response.Validation(c, map[string]string{"cooking_time": err.Error()})
	case errors.Is(err, ErrImageRequired),
		errors.Is(err, storage.ErrInvalidImage),
		errors.Is(err, storage.ErrUnsupportedImage),
		errors.Is(err, storage.ErrImageTooLarge):
		response.Validation(c, map[string]string{"image": err.Error()})
	default:
		response.Internal(c, err)
	}
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid recipe ID")
		return 0, false
	}
	return id, true
}

func queryFlag(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
