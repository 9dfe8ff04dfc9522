package http

import (
	"time"

	"github.com/spring-sisters/spring-backend/internal/tracking/service"
)

// Handler handles HTTP requests for tracked products
type Handler struct {
	svc *service.TrackingService
	now func() time.Time
}

func New(svc *service.TrackingService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}
