// Package provider 文本生成服务适配器
// 每个 provider 负责自己的请求格式和响应解包，调度器只关心 Generate 的结果
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse 响应中没有可用文本
	ErrEmptyResponse = errors.New("provider returned empty text")
	// ErrMalformedResponse 响应体无法解析
	ErrMalformedResponse = errors.New("provider returned malformed body")
	// ErrNotConfigured provider 缺少必要配置（如 API key）
	ErrNotConfigured = errors.New("provider not configured")
)

// Provider 文本生成服务
type Provider interface {
	// Name provider 标识，用于日志和指标
	Name() string
	// Generate 根据 prompt 生成文本，返回值已去除首尾空白且非空
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError 非 2xx 响应
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, body)
}

// Func 函数适配器，测试和简单场景使用
type Func struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

// Name 返回标识
func (f Func) Name() string { return f.ID }

// Generate 调用函数并统一清理结果
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := f.Fn(ctx, prompt)
	if err != nil {
		return "", err
	}
	return clean(text)
}

// clean 去除首尾空白，空文本视为失败
func clean(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
