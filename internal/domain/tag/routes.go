package tag

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tags := api.Group("/tags")
	{
		tags.GET("/", h.List)
		tags.GET("/:id/", h.Get)
	}
}
