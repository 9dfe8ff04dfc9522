package whisper

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	markerKeyPrefix = "spring:whisper:" // spring:whisper:{user_id}:{category} -> date key
	markerTTL       = 48 * time.Hour
)

// MarkerStore keeps the per-category "shown today" markers in Redis.
type MarkerStore struct {
	client *redis.Client
}

func NewMarkerStore(client *redis.Client) *MarkerStore {
	return &MarkerStore{client: client}
}

// Shown returns category -> last shown date key for the user.
func (s *MarkerStore) Shown(ctx context.Context, userID string) (map[Category]string, error) {
	keys := make([]string, len(Categories))
	for i, c := range Categories {
		keys[i] = s.markerKey(userID, c)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read whisper markers: %w", err)
	}

	out := make(map[Category]string, len(Categories))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[Categories[i]] = str
		}
	}
	return out, nil
}

// Mark records that a category was shown on dateKey.
func (s *MarkerStore) Mark(ctx context.Context, userID string, c Category, dateKey string) error {
	if err := s.client.Set(ctx, s.markerKey(userID, c), dateKey, markerTTL).Err(); err != nil {
		return fmt.Errorf("failed to write whisper marker: %w", err)
	}
	return nil
}

// Clear removes every marker for the user (profile reset).
func (s *MarkerStore) Clear(ctx context.Context, userID string) error {
	keys := make([]string, len(Categories))
	for i, c := range Categories {
		keys[i] = s.markerKey(userID, c)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear whisper markers: %w", err)
	}
	return nil
}

func (s *MarkerStore) markerKey(userID string, c Category) string {
	return fmt.Sprintf("%s%s:%s", markerKeyPrefix, userID, c)
}
