package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "catalyst/internal/pkg/http"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totpCode,omitempty"` // 开启两步验证时必填
}

// LoginResponseData 登录响应数据
type LoginResponseData struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int      `json:"expiresIn"` // 秒
	TokenType    string   `json:"tokenType"`
	User         UserInfo `json:"user"`
}

// Login 用户登录
// @Summary      用户登录
// @Description  返回 Access Token 和 Refresh Token；开启两步验证的账号缺少验证码时返回 40103
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  httpx.SuccessResponse{data=LoginResponseData}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      401      {object}  httpx.ErrorResponse
// @Failure      403      {object}  httpx.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid request body", err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, req.TOTPCode)
	if err != nil {
		writeError(c, err, "Login failed")
		return
	}

	httpx.Success(c, http.StatusOK, "登录成功", LoginResponseData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
		User:         toUserInfo(resp.User),
	})
}
