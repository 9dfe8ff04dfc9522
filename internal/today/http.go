package today

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/streak"
)

// Visits records a daily visit; streak.Service implements it.
type Visits interface {
	Touch(ctx context.Context, userID string, now time.Time) (streak.Streak, error)
}

type Handler struct {
	svc    *Service
	visits Visits
	now    func() time.Time
}

// NewHandler wires the dashboard routes. visits may be nil.
func NewHandler(svc *Service, visits Visits) *Handler {
	return &Handler{svc: svc, visits: visits, now: time.Now}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.today)
	rg.GET("/whisper", h.whisper)
}

func (h *Handler) today(c *gin.Context) {
	now, ok := h.resolveNow(c)
	if !ok {
		return
	}
	userID := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()

	d, err := h.svc.Today(ctx, userID, now)
	if err != nil {
		logger.NewLogger(ctx).LogError("today", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to build today's ritual"})
		return
	}

	resp := gin.H{"ok": true, "today": d}
	if h.visits != nil {
		// a streak failure never blocks the dashboard
		if s, err := h.visits.Touch(ctx, userID, now); err == nil {
			resp["streak"] = s
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) whisper(c *gin.Context) {
	now, ok := h.resolveNow(c)
	if !ok {
		return
	}
	active, _ := strconv.ParseBool(c.Query("active"))

	w, err := h.svc.Whisper(c.Request.Context(), auth.UserFirebaseUID(c), now, active)
	if err != nil {
		logger.NewLogger(c.Request.Context()).LogError("today_whisper", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to check whispers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "whisper": w})
}

// resolveNow honours an optional ?now= (RFC3339 or YYYY-MM-DD) so clients
// get their own calendar date.
func (h *Handler) resolveNow(c *gin.Context) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("now"))
	if raw == "" {
		return h.now(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Add(12 * time.Hour), true
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "now must be RFC3339 or YYYY-MM-DD"})
	return time.Time{}, false
}
