package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/reorder"
	"github.com/spring-sisters/spring-backend/internal/tracking/domain"
)

const (
	trackedKeyPrefix = "spring:tracked:" // JSON array of tracked products: spring:tracked:{user_id}
	maxTxRetries     = 5
)

// TrackedRepository stores each user's tracked products as one JSON list,
// in the order they were started.
type TrackedRepository struct {
	client *redis.Client
}

func NewTrackedRepository(client *redis.Client) *TrackedRepository {
	return &TrackedRepository{client: client}
}

// List returns the user's tracked products in insertion order.
func (r *TrackedRepository) List(ctx context.Context, userID string) ([]reorder.Tracked, error) {
	return r.load(ctx, r.client, userID)
}

// Put stores t, replacing any existing record for the same product. The new
// record goes to the end of the list.
func (r *TrackedRepository) Put(ctx context.Context, userID string, t reorder.Tracked) error {
	return r.update(ctx, userID, func(items []reorder.Tracked) ([]reorder.Tracked, error) {
		out := make([]reorder.Tracked, 0, len(items)+1)
		for _, it := range items {
			if it.ProductID != t.ProductID {
				out = append(out, it)
			}
		}
		return append(out, t), nil
	})
}

// Remove deletes the record for productID. ErrNotTracked when absent.
func (r *TrackedRepository) Remove(ctx context.Context, userID string, productID catalog.ProductID) error {
	return r.update(ctx, userID, func(items []reorder.Tracked) ([]reorder.Tracked, error) {
		out := make([]reorder.Tracked, 0, len(items))
		for _, it := range items {
			if it.ProductID != productID {
				out = append(out, it)
			}
		}
		if len(out) == len(items) {
			return nil, domain.ErrNotTracked
		}
		return out, nil
	})
}

// Clear drops every tracked product for the user.
func (r *TrackedRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.trackedKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear tracked products: %w", err)
	}
	return nil
}

// update runs fn under WATCH so concurrent writers never lose records.
func (r *TrackedRepository) update(ctx context.Context, userID string, fn func([]reorder.Tracked) ([]reorder.Tracked, error)) error {
	key := r.trackedKey(userID)

	txf := func(tx *redis.Tx) error {
		items, err := r.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		next, err := fn(items)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(next) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			data, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("failed to marshal tracked products: %w", err)
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to update tracked products: too much contention")
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *TrackedRepository) load(ctx context.Context, c getter, userID string) ([]reorder.Tracked, error) {
	data, err := c.Get(ctx, r.trackedKey(userID)).Result()
	if err == redis.Nil {
		return []reorder.Tracked{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked products: %w", err)
	}

	var items []reorder.Tracked
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracked products: %w", err)
	}
	return items, nil
}

func (r *TrackedRepository) trackedKey(userID string) string {
	return fmt.Sprintf("%s%s", trackedKeyPrefix, userID)
}
