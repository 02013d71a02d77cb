package model

// SendMessageResponse 发送消息响应
type SendMessageResponse struct {
	UserMessage    *Message `json:"userMessage"`
	AIMessage      *Message `json:"aiMessage"`
	ConversationID string   `json:"conversationId"`
}

// GenerateImageResponse 图片生成响应
type GenerateImageResponse struct {
	Image   string `json:"image"` // data:image/svg+xml;base64,...
	Message string `json:"message"`
}

// ImageErrorResponse 图片接口错误响应
type ImageErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// PageResponse 分页响应
type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int64 `json:"page"`
	PageSize int64 `json:"pageSize"`
}

// HealthStatus /api/health 响应
type HealthStatus struct {
	Status   string            `json:"status"` // operational / degraded
	Database string            `json:"database"`
	Cache    string            `json:"cache"`
	Services map[string]string `json:"services"`
	Chain    []string          `json:"chain"`
}
