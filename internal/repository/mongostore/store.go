// Package mongostore 基于 MongoDB 的持久存储（默认驱动）
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalyst/internal/pkg/mongodb"
	"catalyst/internal/repository"
)

const (
	usersCollection         = "users"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// Store MongoDB 持久存储
type Store struct {
	client        *mongodb.Client
	users         *UserRepo
	conversations *ConversationRepo
	messages      *MessageRepo
}

var _ repository.Store = (*Store)(nil)

// New 创建存储并确保索引存在
func New(ctx context.Context, client *mongodb.Client) (*Store, error) {
	db := client.Database()
	if err := mongodb.EnsureAllIndexes(ctx, db, indexes()...); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		users:  &UserRepo{collection: db.Collection(usersCollection)},
		conversations: &ConversationRepo{
			collection: db.Collection(conversationsCollection),
			messages:   db.Collection(messagesCollection),
		},
		messages: &MessageRepo{collection: db.Collection(messagesCollection)},
	}, nil
}

// Users 用户仓库
func (s *Store) Users() repository.UserRepository { return s.users }

// Conversations 对话仓库
func (s *Store) Conversations() repository.ConversationRepository { return s.conversations }

// Messages 消息仓库
func (s *Store) Messages() repository.MessageRepository { return s.messages }

// Name 驱动名
func (s *Store) Name() string { return "mongo" }

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

// Close 断开连接
func (s *Store) Close(ctx context.Context) error { return s.client.Close(ctx) }

func indexes() []mongodb.Model {
	return []mongodb.Model{
		mongodb.Indexes{
			Name: usersCollection,
			Models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "username", Value: 1}},
					Options: options.Index().SetName("idx_username").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("idx_email").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_created_at"),
				},
			},
		},
		mongodb.Indexes{
			Name: conversationsCollection,
			Models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
					Options: options.Index().SetName("idx_user_updated"),
				},
			},
		},
		mongodb.Indexes{
			Name: messagesCollection,
			Models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
					Options: options.Index().SetName("idx_conv_created"),
				},
			},
		},
	}
}

// translate 把驱动错误映射为仓库错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func skip(page, pageSize int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
