package streak

import (
	"context"
	"time"

	"github.com/spring-sisters/spring-backend/internal/logger"
)

type Store interface {
	Get(ctx context.Context, userID string) (Streak, error)
	Update(ctx context.Context, userID string, fn func(Streak) (Streak, bool)) (Streak, error)
	Delete(ctx context.Context, userID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Touch records a visit at now (already in the user's location).
func (s *Service) Touch(ctx context.Context, userID string, now time.Time) (Streak, error) {
	st, err := s.store.Update(ctx, userID, func(cur Streak) (Streak, bool) {
		return Advance(cur, now)
	})
	if err != nil {
		logger.NewLogger(ctx).LogError("streak_touch", err)
		return Streak{}, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, userID string) (Streak, error) {
	return s.store.Get(ctx, userID)
}

func (s *Service) Reset(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}
