package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler 创建个人资料处理器
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get 获取个人资料
// @Summary      获取个人资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=auth.User}
// @Router       /api/user/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err, "Failed to load profile")
		return
	}

	httpx.Success(c, http.StatusOK, "success", user)
}

// Update 更新个人资料，preferences 必须是 JSON 对象文本
// @Summary      更新个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.UpdateProfileRequest  true  "资料"
// @Success      200      {object}  httpx.SuccessResponse{data=auth.User}
// @Failure      400      {object}  httpx.ErrorResponse
// @Router       /api/user/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err, "Failed to update profile")
		return
	}

	httpx.Success(c, http.StatusOK, "更新成功", user)
}
