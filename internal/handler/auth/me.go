package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/pkg/ctxutil"
	httpx "catalyst/internal/pkg/http"
)

// Me 获取当前用户信息
// @Summary      当前用户
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=UserInfo}
// @Failure      401  {object}  httpx.ErrorResponse
// @Router       /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		httpx.Error(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Authentication required")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Failed to load user")
		return
	}

	httpx.Success(c, http.StatusOK, "success", toUserInfo(user))
}
