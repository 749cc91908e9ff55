package tag

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
// @Summary List tags
// @Tags Tags
// @Produce json
// @Router /tags/ [get]
func (h *Handler) List(c *gin.Context) {
	tags, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	if tags == nil {
		tags = []Tag{}
	}
	response.Success(c, http.StatusOK, tags)
}

// Get godoc
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Router /tags/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid tag ID")
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Tag not found")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}
