package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultAvailabilityTTL は空席数キャッシュの既定有効期限
const DefaultAvailabilityTTL = 30 * time.Second

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はイベントごとの空席数キャッシュを管理する
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheを作成する
func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

// GetAvailableCount はイベントの空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, eventID int64) (int, error) {
	val, err := c.client.Get(ctx, availableCountKey(eventID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はイベントの空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, eventID int64, count int) error {
	if err := c.client.Set(ctx, availableCountKey(eventID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID int64) error {
	if err := c.client.Del(ctx, availableCountKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func availableCountKey(eventID int64) string {
	return fmt.Sprintf("seats:available:%d", eventID)
}
