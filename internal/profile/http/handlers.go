package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

const dateLayout = "2006-01-02"

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		h.fail(c, "profile_get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	upd := domain.UpdateRequest{
		Name:            req.Name,
		Email:           req.Email,
		CycleLengthDays: req.CycleLengthDays,
		CellularMode:    req.CellularMode,
		PushToken:       req.PushToken,
	}
	if req.ReferenceDate != nil {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*req.ReferenceDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "reference_date must be YYYY-MM-DD"})
			return
		}
		upd.ReferenceDate = &d
	}
	if req.Inventory != nil {
		upd.Inventory = make(map[catalog.ProductID]int, len(req.Inventory))
		for id, qty := range req.Inventory {
			upd.Inventory[catalog.ProductID(id)] = qty
		}
	}
	if req.SkinConcerns != nil {
		concerns := make([]catalog.Concern, 0, len(*req.SkinConcerns))
		for _, s := range *req.SkinConcerns {
			concern, err := catalog.ParseConcern(strings.TrimSpace(s))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
				return
			}
			concerns = append(concerns, concern)
		}
		upd.SkinConcerns = &concerns
	}

	p, err := h.svc.Update(c.Request.Context(), auth.UserFirebaseUID(c), upd)
	if err != nil {
		h.fail(c, "profile_update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) setQuantity(c *gin.Context) {
	var req quantityReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	productID := catalog.ProductID(strings.TrimSpace(c.Param("product_id")))
	p, err := h.svc.SetQuantity(c.Request.Context(), auth.UserFirebaseUID(c), productID, *req.Quantity)
	if err != nil {
		h.fail(c, "profile_set_quantity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) setRituals(c *gin.Context) {
	var req ritualsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	custom := ritual.Custom{Morning: toIDs(req.Morning), Evening: toIDs(req.Evening), Note: strings.TrimSpace(req.Note)}
	p, err := h.svc.SetCustomRituals(c.Request.Context(), auth.UserFirebaseUID(c), custom)
	if err != nil {
		h.fail(c, "profile_set_rituals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) clearRituals(c *gin.Context) {
	p, err := h.svc.ClearCustomRituals(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		h.fail(c, "profile_clear_rituals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context(), auth.UserFirebaseUID(c)); err != nil {
		h.fail(c, "profile_reset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	logger.NewLogger(c.Request.Context()).LogError(op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "profile storage unavailable"})
}

func toIDs(in []string) []catalog.ProductID {
	out := make([]catalog.ProductID, 0, len(in))
	for _, s := range in {
		out = append(out, catalog.ProductID(strings.TrimSpace(s)))
	}
	return out
}
