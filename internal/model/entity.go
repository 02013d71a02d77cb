package model

import (
	"time"
)

// MessageRole 消息角色
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// DefaultConversationTitle 新对话的占位标题
const DefaultConversationTitle = "Nova conversa"

// Conversation 对话实体
// 所有读写都必须带上 UserID 过滤
type Conversation struct {
	ID           string `bson:"_id" gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string `bson:"user_id" gorm:"type:varchar(36);not null;index:idx_conv_user_updated,priority:1" json:"userId"`
	Title        string `bson:"title" gorm:"type:varchar(255);not null" json:"title"`
	SystemPrompt string `bson:"system_prompt,omitempty" gorm:"type:text" json:"systemPrompt,omitempty"`
	// TitleGenerated 首条消息写入自动标题后置为 true，之后不再改写标题
	TitleGenerated bool      `bson:"title_generated" gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" gorm:"index:idx_conv_user_updated,priority:2" json:"updatedAt"`

	Messages []Message `bson:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Message 消息实体，创建后不可修改
// 同一对话内按 (CreatedAt, ID) 升序排列，ID 为 UUIDv7
type Message struct {
	ID             string      `bson:"_id" gorm:"primaryKey;type:varchar(36)" json:"id"`
	ConversationID string      `bson:"conversation_id" gorm:"type:varchar(36);not null;index:idx_msg_conv_created,priority:1" json:"conversationId"`
	Role           MessageRole `bson:"role" gorm:"type:varchar(16);not null" json:"role"`
	Content        string      `bson:"content" gorm:"type:text;not null" json:"content"`
	ImageURL       string      `bson:"image_url,omitempty" gorm:"type:text" json:"imageUrl,omitempty"`
	CreatedAt      time.Time   `bson:"created_at" gorm:"index:idx_msg_conv_created,priority:2" json:"createdAt"`
	EditedAt       *time.Time  `bson:"edited_at,omitempty" json:"editedAt,omitempty"`
}

// Exchange 一次问答的写入单元：用户消息 + 助手消息 + 候选标题
type Exchange struct {
	ConversationID   string
	UserID           string
	UserMessage      *Message
	AssistantMessage *Message
	// Title 仅在对话尚未自动命名时写入
	Title string
	At    time.Time
}

// Stats 管理后台统计
type Stats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalConversations int64 `json:"totalConversations"`
	TotalMessages      int64 `json:"totalMessages"`
}
