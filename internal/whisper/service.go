package whisper

import (
	"context"

	"github.com/spring-sisters/spring-backend/internal/logger"
)

// Markers is the persistence the service needs; MarkerStore implements it.
type Markers interface {
	Shown(ctx context.Context, userID string) (map[Category]string, error)
	Mark(ctx context.Context, userID string, c Category, dateKey string) error
}

type Service struct {
	markers Markers
}

func NewService(markers Markers) *Service {
	return &Service{markers: markers}
}

// Peek decides the whisper that Next would surface without recording it.
// in.Shown is loaded from the store and overrides whatever the caller passed.
func (s *Service) Peek(ctx context.Context, userID string, in Input) (*Whisper, error) {
	if in.Active {
		return nil, nil
	}

	shown, err := s.markers.Shown(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.Shown = shown
	return Decide(in), nil
}

// Next decides the whisper to surface and records it as shown.
func (s *Service) Next(ctx context.Context, userID string, in Input) (*Whisper, error) {
	w, err := s.Peek(ctx, userID, in)
	if err != nil || w == nil {
		return nil, err
	}

	if err := s.markers.Mark(ctx, userID, w.Category, w.DateKey); err != nil {
		return nil, err
	}
	logger.NewLogger(ctx).LogInfof("whisper_next", "user_id=%s category=%s", userID, w.Category)
	return w, nil
}

// MarkShown records a whisper delivered through another channel (push).
func (s *Service) MarkShown(ctx context.Context, userID string, c Category, dateKey string) error {
	return s.markers.Mark(ctx, userID, c, dateKey)
}
