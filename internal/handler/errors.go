package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalyst/internal/pkg/ctxutil"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// statusOf 把业务错误映射为 HTTP 状态码和业务错误码
func statusOf(err error) (int, int) {
	switch {
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrImageProviderUnavailable),
		errors.Is(err, service.ErrInvalidPreferences),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidTOTP),
		errors.Is(err, service.ErrNoPendingTOTP),
		errors.Is(err, service.ErrCannotChangeOwnRole):
		return http.StatusBadRequest, httpx.CodeValidation
	case errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, httpx.CodeNotFound
	case errors.Is(err, service.ErrTOTPAlreadyActive):
		return http.StatusConflict, httpx.CodeConflict
	default:
		return http.StatusInternalServerError, httpx.CodeInternal
	}
}

// writeError 写入统一错误响应，5xx 不暴露内部错误
func writeError(c *gin.Context, err error, message string) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		httpx.Error(c, status, code, message)
		return
	}
	httpx.Error(c, status, code, err.Error())
}

// userID 读取认证中间件注入的用户 ID
func userID(c *gin.Context) (string, bool) {
	uid, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Authentication required")
	}
	return uid, ok
}

// invalidBody 请求体解析失败
func invalidBody(c *gin.Context, err error) {
	httpx.Error(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid request body", err.Error())
}
