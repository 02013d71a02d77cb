package model

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content       string `json:"content"`
	GenerateImage bool   `json:"generateImage,omitempty"`
}

// CreateConversationRequest 创建对话请求
type CreateConversationRequest struct {
	Title        string `json:"title,omitempty" binding:"max=255"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// UpdateSystemPromptRequest 更新系统提示词请求，空字符串表示清除
type UpdateSystemPromptRequest struct {
	SystemPrompt *string `json:"systemPrompt" binding:"required"`
}

// GenerateImageRequest 图片生成请求
type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// UpdateProfileRequest 更新个人资料请求，未提供的字段保持不变
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=500"`
	Preferences *string `json:"preferences,omitempty"`
}

// UpdateRoleRequest 管理员修改用户角色
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// PageQuery 分页参数
type PageQuery struct {
	Page     int64 `form:"page"`
	PageSize int64 `form:"pageSize"`
}

// Normalize 补全默认分页参数
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}
