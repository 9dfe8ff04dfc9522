package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Start)
	rg.DELETE("/:product_id", h.Stop)
	rg.GET("/reorder", h.Reorder)
}
