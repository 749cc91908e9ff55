package ingredient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary Search ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "name prefix"
// @Router /ingredients/ [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Internal(c, err)
		return
	}
	if items == nil {
		items = []Ingredient{}
	}
	response.Success(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Router /ingredients/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid ingredient ID")
		return
	}
	ing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrIngredientNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Ingredient not found")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, ing)
}
