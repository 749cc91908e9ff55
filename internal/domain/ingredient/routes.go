package ingredient

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("/", h.List)
		ingredients.GET("/:id/", h.Get)
	}
}
