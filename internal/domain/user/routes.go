package user

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("/", h.List)
		users.POST("/", h.Register)
		users.GET("/me/", middleware.RequireAuth(), h.Me)
		users.POST("/set_password/", middleware.RequireAuth(), h.SetPassword)
		users.GET("/:id/", h.Get)
	}

	token := api.Group("/auth/token")
	{
		token.POST("/login/", h.Login)
		token.POST("/logout/", middleware.RequireAuth(), h.Logout)
	}
}
