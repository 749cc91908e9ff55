package follow

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	service     *Service
	pageSize    int
	maxPageSize int
}

func NewHandler(service *Service, pageSize, maxPageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize, maxPageSize: maxPageSize}
}

// Subscribe godoc
// @Summary Subscribe to an author
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "recipes in preview"
// @Success 201 {object} Subscription
// @Router /users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid user ID")
		return
	}
	recipesLimit, ok := recipesLimitFromQuery(c)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID, recipesLimit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// Unsubscribe godoc
// @Summary Unsubscribe from an author
// @Tags Users
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 204
// @Router /users/{id}/subscribe/ [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid user ID")
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions godoc
// @Summary Authors the caller follows
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param recipes_limit query int false "recipes per author"
// @Router /users/subscriptions/ [get]
func (h *Handler) Subscriptions(c *gin.Context) {
	recipesLimit, ok := recipesLimitFromQuery(c)
	if !ok {
		return
	}
	p := pagination.FromQuery(c, h.pageSize, h.maxPageSize)

	subs, total, err := h.service.ListSubscriptions(c.Request.Context(), middleware.CurrentUserID(c), p.Limit, p.Offset(), recipesLimit)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, pagination.New(c, p, total, subs))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSelfFollow):
		response.Error(c, http.StatusBadRequest, "SELF_FOLLOW", err.Error())
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusBadRequest, "ALREADY_SUBSCRIBED", err.Error())
	case errors.Is(err, ErrNotSubscribed):
		response.Error(c, http.StatusBadRequest, "NOT_SUBSCRIBED", err.Error())
	case errors.Is(err, ErrAuthorNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
	default:
		response.Internal(c, err)
	}
}

func recipesLimitFromQuery(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.Validation(c, map[string]string{"recipes_limit": "A non-negative integer is required."})
		return 0, false
	}
	return n, true
}
