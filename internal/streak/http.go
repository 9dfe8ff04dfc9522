package streak

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/logger"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		logger.NewLogger(c.Request.Context()).LogError("streak_get", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load streak"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "streak": s})
}
