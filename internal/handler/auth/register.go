package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "catalyst/internal/pkg/http"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty" binding:"omitempty,max=100"`
}

// Register 用户注册
// @Summary      用户注册
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  httpx.SuccessResponse{data=UserInfo}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      409      {object}  httpx.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, err, "Registration failed")
		return
	}

	httpx.Success(c, http.StatusCreated, "注册成功", toUserInfo(user))
}
