package follow

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users", middleware.RequireAuth())
	{
		users.GET("/subscriptions/", h.Subscriptions)
		users.POST("/:id/subscribe/", h.Subscribe)
		users.DELETE("/:id/subscribe/", h.Unsubscribe)
	}
}
