package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model"
	"catalyst/internal/service"
)

// ChatHandler 消息处理器
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler 创建消息处理器
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage 发送消息并获取回复
// 只要对话存在就一定返回助手回复；只有存储失败会返回 5xx
// @Summary      发送消息
// @Tags         对话
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "对话ID"
// @Param        request  body      model.SendMessageRequest  true  "消息内容"
// @Success      200      {object}  model.SendMessageResponse
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      404      {object}  httpx.ErrorResponse
// @Failure      500      {object}  httpx.ErrorResponse
// @Router       /api/conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	resp, err := h.chat.SendMessage(c.Request.Context(), uid, c.Param("id"), req.Content, req.GenerateImage)
	if err != nil {
		if c.Request.Context().Err() != nil {
			// 客户端已断开，响应不会被读取
			c.Status(499)
			return
		}
		writeError(c, err, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, resp)
}
