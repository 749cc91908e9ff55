package shoppinglist

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/recipes/download_shopping_cart/", middleware.RequireAuth(), h.Download)
}
