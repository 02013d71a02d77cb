package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/service"
)

// AdminHandler 管理后台处理器，路由需经过 RequireAdmin
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler 创建管理后台处理器
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Stats 全局统计
// @Summary      统计数据
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=model.Stats}
// @Failure      403  {object}  httpx.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to load stats")
		return
	}
	httpx.Success(c, http.StatusOK, "success", stats)
}

// Users 用户列表
// @Summary      用户列表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "页码"
// @Param        pageSize  query     int  false  "每页数量"
// @Success      200       {object}  httpx.SuccessResponse{data=model.PageResponse[auth.User]}
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	var q model.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidBody(c, err)
		return
	}

	page, err := h.admin.ListUsers(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "Failed to list users")
		return
	}
	httpx.Success(c, http.StatusOK, "success", page)
}

// Conversations 全部对话列表
// @Summary      对话列表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "页码"
// @Param        pageSize  query     int  false  "每页数量"
// @Success      200       {object}  httpx.SuccessResponse{data=model.PageResponse[model.Conversation]}
// @Router       /api/admin/conversations [get]
func (h *AdminHandler) Conversations(c *gin.Context) {
	var q model.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidBody(c, err)
		return
	}

	page, err := h.admin.ListConversations(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, "Failed to list conversations")
		return
	}
	httpx.Success(c, http.StatusOK, "success", page)
}

// UpdateRole 修改用户角色
// @Summary      修改用户角色
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "用户ID"
// @Param        request  body      model.UpdateRoleRequest  true  "角色"
// @Success      200      {object}  httpx.SuccessResponse{data=auth.User}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      404      {object}  httpx.ErrorResponse
// @Router       /api/admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	actor, ok := userID(c)
	if !ok {
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, err := h.admin.UpdateRole(c.Request.Context(), actor, c.Param("id"), auth.UserRole(req.Role))
	if err != nil {
		writeError(c, err, "Failed to update role")
		return
	}
	httpx.Success(c, http.StatusOK, "更新成功", user)
}
