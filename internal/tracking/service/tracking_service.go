package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/reorder"
	"github.com/spring-sisters/spring-backend/internal/tracking/domain"
	"github.com/spring-sisters/spring-backend/internal/tracking/repository"
)

// TrackingService handles product usage tracking and reorder lookups.
type TrackingService struct {
	repo *repository.TrackedRepository
}

func NewTrackingService(repo *repository.TrackedRepository) *TrackingService {
	return &TrackingService{repo: repo}
}

// Start begins tracking productID from now. Restarting a product replaces
// its previous record.
func (s *TrackingService) Start(ctx context.Context, userID string, productID catalog.ProductID, now time.Time) (*reorder.Tracked, error) {
	if !catalog.Known(productID) {
		return nil, domain.ErrUnknown
	}
	lifespan := catalog.Lifespan(productID)
	if lifespan <= 0 {
		return nil, domain.ErrNotTrackable
	}

	t := reorder.Tracked{
		ID:           uuid.New().String(),
		ProductID:    productID,
		StartDate:    now,
		LifespanDays: lifespan,
	}
	if err := s.repo.Put(ctx, userID, t); err != nil {
		return nil, err
	}

	logger.NewLogger(ctx).LogInfof("tracking_start", "user_id=%s product=%s lifespan=%d", userID, productID, lifespan)
	return &t, nil
}

func (s *TrackingService) Stop(ctx context.Context, userID string, productID catalog.ProductID) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *TrackingService) List(ctx context.Context, userID string) ([]reorder.Tracked, error) {
	return s.repo.List(ctx, userID)
}

// ReorderCandidates returns the tracked products that are running low, in
// the order they were started.
func (s *TrackingService) ReorderCandidates(ctx context.Context, userID string, now time.Time) ([]reorder.Candidate, error) {
	all, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return reorder.ListCandidates(all, now), nil
}

func (s *TrackingService) Reset(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
