package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// SecurityHandler 两步验证处理器
type SecurityHandler struct {
	security *service.SecurityService
}

// NewSecurityHandler 创建两步验证处理器
func NewSecurityHandler(security *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{security: security}
}

// EnableTOTPRequest 启用两步验证请求，兼容旧客户端的 token 字段
type EnableTOTPRequest struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

// Setup 生成待确认的 TOTP 密钥
// @Summary      生成两步验证密钥
// @Tags         安全
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=service.TOTPSetup}
// @Failure      409  {object}  httpx.ErrorResponse
// @Router       /api/security/2fa/setup [post]
func (h *SecurityHandler) Setup(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	setup, err := h.security.SetupTOTP(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err, "Failed to set up two-factor authentication")
		return
	}

	httpx.Success(c, http.StatusOK, "success", setup)
}

// Enable 校验验证码并启用两步验证
// @Summary      启用两步验证
// @Tags         安全
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      EnableTOTPRequest  true  "验证码"
// @Success      200      {object}  httpx.SuccessResponse
// @Failure      400      {object}  httpx.ErrorResponse
// @Router       /api/security/2fa/enable [post]
func (h *SecurityHandler) Enable(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req EnableTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.TrimSpace(req.Token)
	}
	if code == "" {
		httpx.Error(c, http.StatusBadRequest, httpx.CodeValidation, "code is required")
		return
	}

	if err := h.security.EnableTOTP(c.Request.Context(), uid, code); err != nil {
		writeError(c, err, "Failed to enable two-factor authentication")
		return
	}

	httpx.Success(c, http.StatusOK, "两步验证已启用", nil)
}

// Disable 关闭两步验证
// @Summary      关闭两步验证
// @Tags         安全
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse
// @Router       /api/security/2fa/disable [post]
func (h *SecurityHandler) Disable(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.security.DisableTOTP(c.Request.Context(), uid); err != nil {
		writeError(c, err, "Failed to disable two-factor authentication")
		return
	}

	httpx.Success(c, http.StatusOK, "两步验证已关闭", nil)
}
