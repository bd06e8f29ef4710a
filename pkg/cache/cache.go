// Package cache 课程状态的请求级缓存，按课程 UUID 缓存并在保存后显式失效
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 键不存在或已过期
var ErrMiss = errors.New("cache miss")

// DefaultTTL 默认缓存时长
const DefaultTTL = 5 * time.Minute

// Store 缓存存储接口
type Store interface {
	// Get 读取键，不存在时返回 ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入键，ttl <= 0 时使用 DefaultTTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate 删除键，键不存在不算错误
	Invalidate(ctx context.Context, keys ...string) error

	// Close 释放连接
	Close() error
}

// IsMiss 判断错误是否表示未命中
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}
