package auth

import (
	"time"
)

// RefreshToken 刷新Token，保存在临时存储中（丢失只会要求重新登录）
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired 检查Token是否已过期
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// PendingTOTP 待确认的 2FA 密钥
type PendingTOTP struct {
	UserID    string    `json:"userId"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"createdAt"`
}
