package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httpx "catalyst/internal/pkg/http"
)

// Logout 退出登录
// @Summary      退出登录
// @Description  使 Refresh Token 失效，可通过 X-Refresh-Token 请求头或请求体传入
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      401  {object}  httpx.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	refreshToken := c.GetHeader("X-Refresh-Token")
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken != "" {
		// 不影响响应
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			log.Warn().Err(err).Msg("Failed to revoke refresh token")
		}
	}

	httpx.Success(c, http.StatusOK, "退出成功", nil)
}
