package http

import "github.com/gin-gonic/gin"

// Register attaches profile routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.PATCH("", h.update)
	rg.PUT("/inventory/:product_id", h.setQuantity)
	rg.PUT("/rituals", h.setRituals)
	rg.DELETE("/rituals", h.clearRituals)
	rg.POST("/reset", h.reset)
}
