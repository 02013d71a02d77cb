// Package session 临时会话数据：refresh token 与待确认的 2FA 密钥
// 数据保存在 cache.Store 中，丢失只会要求用户重新登录或重新绑定
package session

import (
	"context"
	"errors"
	"slices"
	"time"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/cache"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// RefreshTokenRepo refresh token 仓库
type RefreshTokenRepo struct {
	store cache.Store
}

// NewRefreshTokenRepo 创建 refresh token 仓库
func NewRefreshTokenRepo(store cache.Store) *RefreshTokenRepo {
	return &RefreshTokenRepo{store: store}
}

// Create 保存 refresh token，并记录到用户的 token 列表
func (r *RefreshTokenRepo) Create(ctx context.Context, token *auth.RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return errors.New("refresh token already expired")
	}

	if err := r.store.Set(ctx, cache.RefreshTokenKey(token.Token), token, ttl); err != nil {
		return err
	}

	var tokens []string
	if err := r.store.Get(ctx, cache.UserTokensKey(token.UserID), &tokens); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}
	tokens = append(r.alive(ctx, tokens), token.Token)
	return r.store.Set(ctx, cache.UserTokensKey(token.UserID), tokens, ttl)
}

// alive 过滤掉已经过期的 token
func (r *RefreshTokenRepo) alive(ctx context.Context, tokens []string) []string {
	return slices.DeleteFunc(tokens, func(t string) bool {
		ok, err := r.store.Exists(ctx, cache.RefreshTokenKey(t))
		return err == nil && !ok
	})
}

// FindByToken 根据 token 查询，过期视为不存在
func (r *RefreshTokenRepo) FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	var rt auth.RefreshToken
	if err := r.store.Get(ctx, cache.RefreshTokenKey(token), &rt); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rt.IsExpired() {
		_ = r.store.Delete(ctx, cache.RefreshTokenKey(token))
		return nil, ErrNotFound
	}
	return &rt, nil
}

// DeleteByToken 删除单个 token
func (r *RefreshTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	return r.store.Delete(ctx, cache.RefreshTokenKey(token))
}

// DeleteByUserID 删除用户的所有 token
func (r *RefreshTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	var tokens []string
	if err := r.store.Get(ctx, cache.UserTokensKey(userID), &tokens); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil
		}
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, cache.RefreshTokenKey(t))
	}
	keys = append(keys, cache.UserTokensKey(userID))
	return r.store.Delete(ctx, keys...)
}

// PendingTOTPRepo 待确认 2FA 密钥仓库
type PendingTOTPRepo struct {
	store cache.Store
	ttl   time.Duration
}

// NewPendingTOTPRepo 创建待确认 2FA 密钥仓库
func NewPendingTOTPRepo(store cache.Store, ttl time.Duration) *PendingTOTPRepo {
	return &PendingTOTPRepo{store: store, ttl: ttl}
}

// Save 保存密钥，覆盖该用户之前未确认的密钥
func (r *PendingTOTPRepo) Save(ctx context.Context, pending *auth.PendingTOTP) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now().UTC()
	}
	return r.store.Set(ctx, cache.PendingTOTPKey(pending.UserID), pending, r.ttl)
}

// Find 查询用户待确认的密钥
func (r *PendingTOTPRepo) Find(ctx context.Context, userID string) (*auth.PendingTOTP, error) {
	var pending auth.PendingTOTP
	if err := r.store.Get(ctx, cache.PendingTOTPKey(userID), &pending); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pending, nil
}

// Delete 删除待确认的密钥
func (r *PendingTOTPRepo) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, cache.PendingTOTPKey(userID))
}
