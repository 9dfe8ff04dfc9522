package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/tracking/domain"
)

func (h *Handler) List(c *gin.Context) {
	userID := auth.UserFirebaseUID(c)

	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		logger.NewLogger(c.Request.Context()).LogError("tracking_list", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list tracked products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tracked": items})
}

type startReq struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) Start(c *gin.Context) {
	userID := auth.UserFirebaseUID(c)

	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	t, err := h.svc.Start(c.Request.Context(), userID, catalog.ProductID(strings.TrimSpace(req.ProductID)), h.now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknown):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown product"})
		case errors.Is(err, domain.ErrNotTrackable):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "product cannot be tracked"})
		default:
			logger.NewLogger(c.Request.Context()).LogError("tracking_start", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to start tracking"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "tracked": t})
}

func (h *Handler) Stop(c *gin.Context) {
	userID := auth.UserFirebaseUID(c)
	productID := catalog.ProductID(strings.TrimSpace(c.Param("product_id")))

	if err := h.svc.Stop(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotTracked) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "product not tracked"})
			return
		}
		logger.NewLogger(c.Request.Context()).LogError("tracking_stop", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to stop tracking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Reorder(c *gin.Context) {
	userID := auth.UserFirebaseUID(c)

	items, err := h.svc.ReorderCandidates(c.Request.Context(), userID, h.now())
	if err != nil {
		logger.NewLogger(c.Request.Context()).LogError("tracking_reorder", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to compute reorder list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reorder": items})
}
