// Package repository 持久化存储接口
// 持久存储（用户、对话、消息）必须在进程重启后保留；会话等临时数据见 session 包
package repository

import (
	"context"
	"errors"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository 用户仓库
type UserRepository interface {
	Create(ctx context.Context, user *auth.User) error
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	Update(ctx context.Context, id string, update auth.UserUpdate) error
	UpdateLastLoginAt(ctx context.Context, id string) error
	// List 按创建时间倒序分页，page 从 1 开始
	List(ctx context.Context, page, pageSize int64) ([]*auth.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

// ConversationRepository 对话仓库
// 除管理接口外，所有方法都按 userID 过滤，不属于该用户的对话视为不存在
type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) error
	FindByID(ctx context.Context, userID, id string) (*model.Conversation, error)
	// ListByUser 按 updatedAt 倒序
	ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error)
	UpdateSystemPrompt(ctx context.Context, userID, id, systemPrompt string) error
	// Delete 删除对话及其全部消息
	Delete(ctx context.Context, userID, id string) error
	// AppendExchange 写入一次问答：两条消息、首次自动标题、更新 updatedAt
	// 调用方看到的效果是原子的，失败时不会留下只有用户消息的半截记录
	AppendExchange(ctx context.Context, ex *model.Exchange) error
	ListAll(ctx context.Context, page, pageSize int64) ([]*model.Conversation, int64, error)
	Count(ctx context.Context) (int64, error)
}

// MessageRepository 消息仓库（只读，写入统一经过 AppendExchange）
type MessageRepository interface {
	// ListByConversation 按 (createdAt, id) 升序返回全部消息
	ListByConversation(ctx context.Context, conversationID string) ([]*model.Message, error)
	// ListRecent 返回最近 limit 条消息，按时间升序
	ListRecent(ctx context.Context, conversationID string, limit int) ([]*model.Message, error)
	Count(ctx context.Context) (int64, error)
}

// Store 持久存储聚合
type Store interface {
	Users() UserRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	// Name 存储驱动名（mongo/postgres/sqlite）
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
