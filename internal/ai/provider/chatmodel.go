package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"catalyst/internal/ai/component"
	"catalyst/internal/config"
)

// ChatModel 基于 Eino ChatModel 的适配器（openai / azure / ark）
type ChatModel struct {
	name  string
	model model.BaseChatModel
}

// NewChatModel 根据配置创建 Eino ChatModel 适配器
func NewChatModel(ctx context.Context, cfg *config.ChatModelConfig) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("chatmodel: %w", ErrNotConfigured)
	}
	cm, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("chatmodel: %w", err)
	}
	return WrapChatModel(cfg.Provider, cm), nil
}

// WrapChatModel 包装已有的 ChatModel
func WrapChatModel(name string, cm model.BaseChatModel) *ChatModel {
	if name == "" {
		name = "openai"
	}
	return &ChatModel{name: "chatmodel:" + name, model: cm}
}

// Name 返回标识
func (c *ChatModel) Name() string {
	return c.name
}

// Generate prompt 作为单条用户消息发送
func (c *ChatModel) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%s: %w", c.name, ErrEmptyResponse)
	}
	return clean(msg.Content)
}
