package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Indexes 单个集合的索引定义
type Indexes struct {
	Name   string
	Models []mongo.IndexModel
}

// Collection 返回集合名称
func (i Indexes) Collection() string {
	return i.Name
}

// EnsureIndexes 创建集合索引，已存在的同名索引会被忽略
func (i Indexes) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return CreateIndexes(ctx, db.Collection(i.Name), i.Models)
}
