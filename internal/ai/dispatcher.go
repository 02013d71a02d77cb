// Package ai 文本生成调度：按优先级依次尝试 provider，全部失败时使用本地兜底回复
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"catalyst/internal/ai/fallback"
	"catalyst/internal/ai/provider"
	"catalyst/internal/pkg/metrics"
)

// FallbackProvider 兜底回复在 Result.Provider 中的标识
const FallbackProvider = "fallback"

// DefaultTimeout 单次 provider 调用的默认超时
const DefaultTimeout = 20 * time.Second

// Result 调度结果，Text 总是非空
type Result struct {
	Text     string
	Provider string
	Fallback bool
}

// Dispatcher provider 调度器
// 每个 provider 每条消息只尝试一次，没有重试和退避，失败不会返回给调用方
type Dispatcher struct {
	providers []provider.Provider
	responder *fallback.Responder
	timeout   time.Duration
}

// NewDispatcher 创建调度器
func NewDispatcher(providers []provider.Provider, responder *fallback.Responder, timeout time.Duration) *Dispatcher {
	if responder == nil {
		responder = fallback.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		providers: providers,
		responder: responder,
		timeout:   timeout,
	}
}

// Dispatch 依次调用 provider，返回第一个成功的结果；都失败时按 userMessage 选择兜底回复
func (d *Dispatcher) Dispatch(ctx context.Context, prompt, userMessage string) Result {
	m := metrics.Global()

	for _, p := range d.providers {
		if ctx.Err() != nil {
			break
		}

		text, err := d.call(ctx, p, prompt)
		if err == nil {
			m.ProviderCalls.WithLabelValues(p.Name(), "success").Inc()
			return Result{Text: text, Provider: p.Name()}
		}

		m.ProviderCalls.WithLabelValues(p.Name(), "failure").Inc()
		log.Warn().
			Err(err).
			Str("provider", p.Name()).
			Msg("provider failed, trying next")
	}

	m.FallbackReplies.Inc()
	return Result{
		Text:     d.responder.Reply(userMessage),
		Provider: FallbackProvider,
		Fallback: true,
	}
}

// call 在独立超时下调用单个 provider，panic 视为失败
func (d *Dispatcher) call(ctx context.Context, p provider.Provider, prompt string) (text string, err error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.Global().ProviderLatency.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("provider panic: %v", r)
		}
	}()

	text, err = p.Generate(callCtx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", provider.ErrEmptyResponse
	}
	return text, nil
}

// Providers 返回调度链中的 provider 名称
func (d *Dispatcher) Providers() []string {
	names := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		names = append(names, p.Name())
	}
	return names
}
