package shoppinglist

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgram/internal/logger"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

const filename = "shopping_list.csv"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download godoc
// @Summary Download the shopping list
// @Tags Recipes
// @Security BearerAuth
// @Produce text/csv
// @Router /recipes/download_shopping_cart/ [get]
func (h *Handler) Download(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	lines, err := h.service.Build(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, err)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, lines); err != nil {
		response.Internal(c, err)
		return
	}

	metrics.ShoppingListExports.Inc()
	metrics.ShoppingListLines.Observe(float64(len(lines)))
	logger.Debug("shopping list exported", zap.Int64("user_id", userID), zap.Int("lines", len(lines)))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
