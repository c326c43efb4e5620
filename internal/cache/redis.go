package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 啟動時連線檢查的上限
const connectTimeout = 5 * time.Second

// 註冊確認令牌 (registration:<token>) 與 /ping 健康檢查都透過這個連線
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

// NewRedisClient 連線並確認 Redis 可用；失敗時關閉連線並回傳帶位址的錯誤
func NewRedisClient(addr, password string, db int) (Cache, error) {
	rc := redisNewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return rc, nil
}
