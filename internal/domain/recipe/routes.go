package recipe

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	owner := middleware.NewOwnershipChecker(h.service.repo, "Recipe")

	recipes := api.Group("/recipes")
	{
		recipes.GET("/", h.List)
		recipes.POST("/", middleware.RequireAuth(), h.Create)
		recipes.GET("/:id/", h.Get)
		recipes.PATCH("/:id/", owner.RequireAuthor(), h.Update)
		recipes.DELETE("/:id/", owner.RequireAuthor(), h.Delete)

		recipes.POST("/:id/favorite/", middleware.RequireAuth(), h.AddFavorite)
		recipes.DELETE("/:id/favorite/", middleware.RequireAuth(), h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", middleware.RequireAuth(), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", middleware.RequireAuth(), h.RemoveFromCart)
	}
}
