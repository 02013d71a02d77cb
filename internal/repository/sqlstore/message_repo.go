package sqlstore

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"catalyst/internal/model"
)

// MessageRepo 消息仓库
type MessageRepo struct {
	db *gorm.DB
}

// ListByConversation 按 (created_at, id) 升序返回消息
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListRecent 最近 limit 条消息，按时间升序
func (r *MessageRepo) ListRecent(ctx context.Context, conversationID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Count 统计消息数量
func (r *MessageRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Count(&n).Error
	return n, err
}
