package http

import (
	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeInvalidBody     = 40001 // 请求体解析失败
	CodeValidation      = 40002 // 参数校验失败
	CodeUnauthorized    = 40101 // 未登录/凭证错误
	CodeInvalidToken    = 40102 // Token 无效或过期
	CodeTOTPRequired    = 40103 // 需要两步验证码
	CodeForbidden       = 40301 // 无权限/用户被禁用
	CodeNotFound        = 40401
	CodeConflict        = 40901 // 资源已存在
	CodeTooManyRequests = 42901
	CodeInternal        = 50001
)

// ErrorResponse 错误响应（所有API共用）
// 用于统一错误响应格式
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// SuccessResponse 成功响应（所有API共用）
// 用于统一成功响应格式
type SuccessResponse struct {
	Code    int         `json:"code"`           // 状态码（0表示成功）
	Message string      `json:"message"`        // 响应消息
	Data    interface{} `json:"data,omitempty"` // 响应数据（可选）
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    0,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}

// Success 写入统一成功响应
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, NewSuccessResponse(message, data))
}

// Error 写入统一错误响应
func Error(c *gin.Context, status, code int, message string, detail ...string) {
	c.JSON(status, NewErrorResponse(code, message, detail...))
}

// Abort 写入错误响应并终止后续处理（中间件使用）
func Abort(c *gin.Context, status, code int, message string, detail ...string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(code, message, detail...))
}
