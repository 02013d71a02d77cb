package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"catalyst/internal/ai"
	"catalyst/internal/ai/fallback"
	"catalyst/internal/ai/prompt"
	"catalyst/internal/model"
	"catalyst/internal/pkg/id"
	"catalyst/internal/repository"
)

var (
	ErrEmptyContent         = errors.New("message content is required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPersistence          = errors.New("failed to persist messages")
)

// titleMaxRunes 自动标题最多保留的字符数
const titleMaxRunes = 50

// ChatService 对话服务 - 业务逻辑层
// 职责: 组装 prompt -> 调度 provider -> 一次性写入问答
// 生成完成之前不写入任何数据，请求取消时不会留下没有回复的用户消息
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	users         repository.UserRepository
	assembler     *prompt.Assembler
	dispatcher    *ai.Dispatcher
	images        *ImageService
	historyWindow int // 包含本次消息
	now           func() time.Time
}

// NewChatService 创建对话服务，images 为 nil 时忽略 generateImage
func NewChatService(
	store repository.Store,
	assembler *prompt.Assembler,
	dispatcher *ai.Dispatcher,
	images *ImageService,
	historyWindow int,
) *ChatService {
	if historyWindow < 1 {
		historyWindow = 1
	}
	return &ChatService{
		conversations: store.Conversations(),
		messages:      store.Messages(),
		users:         store.Users(),
		assembler:     assembler,
		dispatcher:    dispatcher,
		images:        images,
		historyWindow: historyWindow,
		now:           time.Now,
	}
}

// SendMessage 处理一条用户消息并返回用户消息和助手回复
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID, content string, generateImage bool) (*model.SendMessageResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	logger := log.With().
		Str("user_id", userID).
		Str("conversation_id", conversationID).
		Logger()

	if !id.IsValid(conversationID) {
		return nil, ErrConversationNotFound
	}

	conv, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	history, err := s.messages.ListRecent(ctx, conv.ID, s.historyWindow-1)
	if err != nil {
		// 历史读取失败不阻止回答
		logger.Warn().Err(err).Msg("Failed to load history, answering without context")
		history = nil
	}

	p := s.assembler.Build(prompt.Input{
		History:      history,
		SystemPrompt: conv.SystemPrompt,
		Preferences:  s.preferences(ctx, userID),
		UserMessage:  content,
	})

	result := s.generate(ctx, p, content)
	if err := ctx.Err(); err != nil {
		logger.Info().Err(err).Msg("Request cancelled before persisting")
		return nil, err
	}

	var imageURL string
	if generateImage && s.images != nil {
		imageURL, err = s.images.Generate(ctx, content, "")
		if err != nil {
			logger.Warn().Err(err).Msg("Image generation for message failed")
		}
	}

	now := s.now().UTC()
	userMsg := &model.Message{
		ID:             id.NewOrdered(),
		ConversationID: conv.ID,
		Role:           model.RoleUser,
		Content:        content,
		CreatedAt:      now,
	}
	aiMsg := &model.Message{
		ID:             id.NewOrdered(),
		ConversationID: conv.ID,
		Role:           model.RoleAssistant,
		Content:        result.Text,
		ImageURL:       imageURL,
		CreatedAt:      now,
	}

	ex := &model.Exchange{
		ConversationID:   conv.ID,
		UserID:           userID,
		UserMessage:      userMsg,
		AssistantMessage: aiMsg,
		At:               now,
	}
	if !conv.TitleGenerated {
		ex.Title = Title(content)
	}

	if err := s.conversations.AppendExchange(ctx, ex); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		logger.Error().Err(err).Msg("Failed to persist exchange")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logger.Info().
		Str("provider", result.Provider).
		Bool("fallback", result.Fallback).
		Int("history", len(history)).
		Msg("Message answered")

	return &model.SendMessageResponse{
		UserMessage:    userMsg,
		AIMessage:      aiMsg,
		ConversationID: conv.ID,
	}, nil
}

// generate 调度 provider，调度本身 panic 时返回静态回复
func (s *ChatService) generate(ctx context.Context, p, content string) (result ai.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Dispatcher panicked, using emergency reply")
			result = ai.Result{Text: fallback.Emergency, Provider: ai.FallbackProvider, Fallback: true}
		}
	}()
	return s.dispatcher.Dispatch(ctx, p, content)
}

// preferences 读取用户偏好，失败时忽略
func (s *ChatService) preferences(ctx context.Context, userID string) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load user preferences")
		return ""
	}
	return user.Preferences
}

// Title 根据首条消息生成对话标题，超过 50 个字符时截断并追加 "..."
func Title(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= titleMaxRunes {
		return content
	}
	return string([]rune(content)[:titleMaxRunes]) + "..."
}
