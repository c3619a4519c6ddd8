package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-seat-saver/internal/config"
)

// NewClient はRedisクライアントを作成する
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping はRedis接続を確認する
func Ping(ctx context.Context, client redis.Cmdable) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return nil
}

// Pinger はヘルスチェック用にRedisクライアントをラップする
type Pinger struct {
	client redis.Cmdable
}

// NewPinger は Pinger を作成する
func NewPinger(client redis.Cmdable) *Pinger {
	return &Pinger{client: client}
}

// Name はチェック対象名を返す
func (p *Pinger) Name() string { return "redis" }

// Ping はRedis接続を確認する
func (p *Pinger) Ping(ctx context.Context) error {
	return Ping(ctx, p.client)
}
