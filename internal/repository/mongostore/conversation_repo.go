package mongostore

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalyst/internal/model"
	"catalyst/internal/repository"
)

// ConversationRepo 对话仓库
// 消息存放在独立的 messages 集合中
type ConversationRepo struct {
	collection *mongo.Collection
	messages   *mongo.Collection
}

// Create 创建对话
func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}
	conv.UpdatedAt = conv.CreatedAt

	_, err := r.collection.InsertOne(ctx, conv)
	return translate(err)
}

func ownerFilter(userID, id string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

// FindByID 查询用户自己的对话
func (r *ConversationRepo) FindByID(ctx context.Context, userID, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.collection.FindOne(ctx, ownerFilter(userID, id)).Decode(&conv); err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

// ListByUser 查询用户对话列表，最近更新的在前
func (r *ConversationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	convs := make([]*model.Conversation, 0)
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// UpdateSystemPrompt 更新系统提示词
func (r *ConversationRepo) UpdateSystemPrompt(ctx context.Context, userID, id, systemPrompt string) error {
	update := bson.M{"$set": bson.M{"system_prompt": systemPrompt, "updated_at": time.Now().UTC()}}
	res, err := r.collection.UpdateOne(ctx, ownerFilter(userID, id), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete 删除对话及其全部消息
// 先删消息再删对话，中途失败时最多留下一个空对话
func (r *ConversationRepo) Delete(ctx context.Context, userID, id string) error {
	if err := r.collection.FindOne(ctx, ownerFilter(userID, id)).Err(); err != nil {
		return translate(err)
	}
	if _, err := r.messages.DeleteMany(ctx, bson.M{"conversation_id": id}); err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, ownerFilter(userID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendExchange 写入一次问答
// 两条消息有序批量插入；后续更新对话失败时删除已插入的消息
func (r *ConversationRepo) AppendExchange(ctx context.Context, ex *model.Exchange) error {
	if err := r.collection.FindOne(ctx, ownerFilter(ex.UserID, ex.ConversationID)).Err(); err != nil {
		return translate(err)
	}

	docs := []any{ex.UserMessage, ex.AssistantMessage}
	if _, err := r.messages.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		// 有序插入时第一条失败则第二条不会写入，这里只需清理可能已写入的第一条
		r.rollback(ctx, ex)
		return translate(err)
	}

	if err := r.touch(ctx, ex); err != nil {
		r.rollback(ctx, ex)
		return err
	}
	return nil
}

func (r *ConversationRepo) touch(ctx context.Context, ex *model.Exchange) error {
	if ex.Title != "" {
		filter := bson.M{"_id": ex.ConversationID, "title_generated": false}
		update := bson.M{"$set": bson.M{"title": ex.Title, "title_generated": true}}
		if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
			return err
		}
	}

	update := bson.M{"$max": bson.M{"updated_at": ex.At}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": ex.ConversationID}, update)
	return err
}

func (r *ConversationRepo) rollback(ctx context.Context, ex *model.Exchange) {
	ids := bson.A{ex.UserMessage.ID, ex.AssistantMessage.ID}
	// 请求已取消时仍需完成清理
	_, err := r.messages.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Error().Err(err).
			Str("conversation_id", ex.ConversationID).
			Msg("Failed to roll back exchange messages")
	}
}

// ListAll 管理后台分页查询所有对话
func (r *ConversationRepo) ListAll(ctx context.Context, page, pageSize int64) ([]*model.Conversation, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip(skip(page, pageSize))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var convs []*model.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// Count 统计对话数量
func (r *ConversationRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
