package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catalyst/internal/model"
)

// ConversationRepo 对话仓库
type ConversationRepo struct {
	db *gorm.DB
}

// Create 创建对话
func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}
	conv.UpdatedAt = conv.CreatedAt
	return translate(r.db.WithContext(ctx).Omit("Messages").Create(conv).Error)
}

// FindByID 查询用户自己的对话
func (r *ConversationRepo) FindByID(ctx context.Context, userID, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&conv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

// ListByUser 查询用户对话列表
func (r *ConversationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// UpdateSystemPrompt 更新系统提示词
func (r *ConversationRepo) UpdateSystemPrompt(ctx context.Context, userID, id, systemPrompt string) error {
	res := r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"system_prompt": systemPrompt, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete 在事务中删除对话和消息
func (r *ConversationRepo) Delete(ctx context.Context, userID, id string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv model.Conversation
		if err := tx.Select("id").Where("id = ? AND user_id = ?", id, userID).Take(&conv).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Conversation{}).Error
	}))
}

// AppendExchange 在一个事务中写入问答
func (r *ConversationRepo) AppendExchange(ctx context.Context, ex *model.Exchange) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv model.Conversation
		if err := tx.Select("id").Where("id = ? AND user_id = ?", ex.ConversationID, ex.UserID).Take(&conv).Error; err != nil {
			return err
		}

		if err := tx.Create(ex.UserMessage).Error; err != nil {
			return err
		}
		if err := tx.Create(ex.AssistantMessage).Error; err != nil {
			return err
		}

		if ex.Title != "" {
			// 只有尚未自动命名的对话会被改写标题
			err := tx.Model(&model.Conversation{}).
				Where("id = ? AND title_generated = ?", ex.ConversationID, false).
				Updates(map[string]any{"title": ex.Title, "title_generated": true, "updated_at": ex.At}).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&model.Conversation{}).
			Where("id = ?", ex.ConversationID).
			Update("updated_at", ex.At).Error
	}))
}

// ListAll 管理后台分页查询所有对话
func (r *ConversationRepo) ListAll(ctx context.Context, page, pageSize int64) ([]*model.Conversation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Conversation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(int(pageSize)).
		Offset(offset(page, pageSize)).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// Count 统计对话数量
func (r *ConversationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).Count(&n).Error
	return n, err
}
