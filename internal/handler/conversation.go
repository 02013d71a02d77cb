package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model"
	"catalyst/internal/service"
)

// ConversationHandler 对话管理处理器
type ConversationHandler struct {
	svc *service.ConversationService
}

// NewConversationHandler 创建对话管理处理器
func NewConversationHandler(svc *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// Create 创建对话
// @Summary      创建对话
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.CreateConversationRequest  false  "标题和系统提示词"
// @Success      201      {object}  model.Conversation
// @Router       /api/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req model.CreateConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err)
			return
		}
	}

	conv, err := h.svc.Create(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err, "Failed to create conversation")
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// List 当前用户的对话列表
// @Summary      对话列表
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.Conversation
// @Router       /api/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	convs, err := h.svc.List(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err, "Failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, convs)
}

// Get 获取对话详情
func (h *ConversationHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	conv, err := h.svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to load conversation")
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Messages 对话中的消息，按时间升序
// @Summary      消息列表
// @Tags         对话
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "对话ID"
// @Success      200  {array}   model.Message
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/conversations/{id}/messages [get]
func (h *ConversationHandler) Messages(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	msgs, err := h.svc.Messages(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to load messages")
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// UpdateSystemPrompt 修改系统提示词
// @Summary      修改系统提示词
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "对话ID"
// @Param        request  body      model.UpdateSystemPromptRequest  true  "系统提示词，空字符串表示清除"
// @Success      200      {object}  model.Conversation
// @Router       /api/conversations/{id}/system-prompt [patch]
func (h *ConversationHandler) UpdateSystemPrompt(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req model.UpdateSystemPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	conv, err := h.svc.UpdateSystemPrompt(c.Request.Context(), uid, c.Param("id"), *req.SystemPrompt)
	if err != nil {
		writeError(c, err, "Failed to update system prompt")
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Delete 删除对话及其消息
func (h *ConversationHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
