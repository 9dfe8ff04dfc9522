package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spring-sisters/spring-backend/internal/assistant"
	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/logger"
)

// Handler exposes the assistant over HTTP.
type Handler struct {
	svc *assistant.Service
}

func New(svc *assistant.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/chat", h.chat)
	rg.POST("/scan-ingredients", h.scanIngredients)
	rg.POST("/analyze-skin", h.analyzeSkin)
}

type scanReq struct {
	ImageData string `json:"imageData"`
}

func (h *Handler) chat(c *gin.Context) {
	var req assistant.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	out, err := h.svc.Ask(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		fail(c, "assistant_chat", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) scanIngredients(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	out, err := h.svc.ScanIngredients(c.Request.Context(), req.ImageData)
	if err != nil {
		fail(c, "assistant_scan", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": out})
}

func (h *Handler) analyzeSkin(c *gin.Context) {
	var req assistant.SkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	out, err := h.svc.AnalyzeSkin(c.Request.Context(), req)
	if err != nil {
		fail(c, "assistant_skin", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func fail(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.NewLogger(c.Request.Context()).LogError(op, err)
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, assistant.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limited, retry later"
	case errors.Is(err, assistant.ErrCreditsExhausted):
		return http.StatusPaymentRequired, "service credits exhausted"
	case errors.Is(err, assistant.ErrMalformedPayload), errors.Is(err, assistant.ErrUpstream):
		return http.StatusBadGateway, "assistant unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
