// Package sqlstore 基于 GORM 的持久存储（postgres / sqlite）
package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"catalyst/internal/model"
	"catalyst/internal/model/auth"
	"catalyst/internal/repository"
)

// Store GORM 持久存储
type Store struct {
	db            *gorm.DB
	driver        string
	users         *UserRepo
	conversations *ConversationRepo
	messages      *MessageRepo
}

var _ repository.Store = (*Store)(nil)

// New 创建存储并迁移表结构
func New(db *gorm.DB, driver string) (*Store, error) {
	if err := db.AutoMigrate(&auth.User{}, &model.Conversation{}, &model.Message{}); err != nil {
		return nil, err
	}
	return &Store{
		db:            db,
		driver:        driver,
		users:         &UserRepo{db: db},
		conversations: &ConversationRepo{db: db},
		messages:      &MessageRepo{db: db},
	}, nil
}

// Users 用户仓库
func (s *Store) Users() repository.UserRepository { return s.users }

// Conversations 对话仓库
func (s *Store) Conversations() repository.ConversationRepository { return s.conversations }

// Messages 消息仓库
func (s *Store) Messages() repository.MessageRepository { return s.messages }

// Name 驱动名
func (s *Store) Name() string { return s.driver }

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭连接
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate 把 GORM 错误映射为仓库错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func offset(page, pageSize int64) int {
	if page < 1 {
		page = 1
	}
	return int((page - 1) * pageSize)
}
