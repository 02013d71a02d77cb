package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalyst/internal/model/auth"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
	Role             string `json:"role"`   // user/admin
	Status           string `json:"status"` // active/banned
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	LastLoginAt      string `json:"lastLoginAt,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
}

// toUserInfo 将User实体转换为UserInfo
func toUserInfo(user *auth.User) UserInfo {
	info := UserInfo{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Name:             user.Name,
		Role:             user.Role.String(),
		Status:           user.Status.String(),
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return info
}

// writeError 认证错误映射
func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		// 不区分用户不存在和密码错误
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrTOTPRequired):
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeTOTPRequired, err.Error())
	case errors.Is(err, service.ErrInvalidTOTP):
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrExpiredToken):
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeInvalidToken, err.Error())
	case errors.Is(err, service.ErrUserBanned):
		httpx.Error(c, http.StatusForbidden, httpx.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrEmailAlreadyExists):
		httpx.Error(c, http.StatusConflict, httpx.CodeConflict, err.Error())
	case errors.Is(err, service.ErrPasswordTooShort):
		httpx.Error(c, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		httpx.Error(c, http.StatusInternalServerError, httpx.CodeInternal, message)
	}
}
