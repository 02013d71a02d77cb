package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound key 不存在或已过期
var ErrNotFound = errors.New("cache: key not found")

// Store 临时存储接口
// 保存会话、待确认的 2FA 密钥、限流计数等可丢失数据，丢失不影响聊天记录
type Store interface {
	// Set 写入值（JSON 序列化），ttl<=0 表示使用默认过期时间
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get 读取值到 dest，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr 计数器自增，首次创建时设置窗口过期时间
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
	// Name 存储类型（redis/memory）
	Name() string
}

// 常用 key 模式
const (
	RefreshTokenKeyPrefix = "refresh:"
	UserTokensKeyPrefix   = "user_tokens:"
	PendingTOTPKeyPrefix  = "totp_pending:"
	RateLimitKeyPrefix    = "ratelimit:"
)

// RefreshTokenKey 生成 refresh token key
func RefreshTokenKey(token string) string {
	return RefreshTokenKeyPrefix + token
}

// PendingTOTPKey 生成待确认 2FA 密钥 key
func PendingTOTPKey(userID string) string {
	return PendingTOTPKeyPrefix + userID
}

// RateLimitKey 生成限流计数 key
func RateLimitKey(scope, subject string, windowStart time.Time) string {
	return RateLimitKeyPrefix + scope + ":" + subject + ":" + windowStart.UTC().Format("200601021504")
}

// UserTokensKey 生成用户 refresh token 列表 key
func UserTokensKey(userID string) string {
	return UserTokensKeyPrefix + userID
}
