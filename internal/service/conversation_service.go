package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"catalyst/internal/model"
	"catalyst/internal/pkg/id"
	"catalyst/internal/repository"
)

// ConversationService 对话管理
// 所有操作都以当前用户为范围，不属于该用户的对话一律视为不存在
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
}

// NewConversationService 创建对话管理服务
func NewConversationService(store repository.Store) *ConversationService {
	return &ConversationService{
		conversations: store.Conversations(),
		messages:      store.Messages(),
	}
}

// Create 创建对话，标题为空时使用默认标题
// 无论是否给出标题，首条消息都会写入一次自动标题
func (s *ConversationService) Create(ctx context.Context, userID string, req *model.CreateConversationRequest) (*model.Conversation, error) {
	conv := &model.Conversation{
		ID:           id.New(),
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		SystemPrompt: strings.TrimSpace(req.SystemPrompt),
		CreatedAt:    time.Now().UTC(),
	}
	if conv.Title == "" {
		conv.Title = model.DefaultConversationTitle
	}

	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// List 当前用户的对话，最近活跃的在前
func (s *ConversationService) List(ctx context.Context, userID string) ([]*model.Conversation, error) {
	convs, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []*model.Conversation{}
	}
	return convs, nil
}

// Get 查询单个对话
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		return nil, notFound(err)
	}
	return conv, nil
}

// Messages 对话中的全部消息，按时间升序
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]*model.Message, error) {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs, nil
}

// UpdateSystemPrompt 修改系统提示词，空字符串表示清除
func (s *ConversationService) UpdateSystemPrompt(ctx context.Context, userID, conversationID, systemPrompt string) (*model.Conversation, error) {
	if err := s.conversations.UpdateSystemPrompt(ctx, userID, conversationID, strings.TrimSpace(systemPrompt)); err != nil {
		return nil, notFound(err)
	}
	return s.Get(ctx, userID, conversationID)
}

// Delete 删除对话及其消息
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	return notFound(s.conversations.Delete(ctx, userID, conversationID))
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrConversationNotFound
	}
	return err
}
