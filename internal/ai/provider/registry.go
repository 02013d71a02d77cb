package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"catalyst/internal/config"
)

// Build 按名称创建 provider
func Build(ctx context.Context, name string, cfg *config.AIConfig) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(&cfg.Gemini)
	case "raikken":
		return NewRaikken(&cfg.Raikken)
	case "chatmodel":
		return NewChatModel(ctx, &cfg.ChatModel)
	default:
		return nil, fmt.Errorf("unsupported provider %q", name)
	}
}

// BuildChain 按 ai.chain 顺序创建 provider 列表，未配置的跳过
func BuildChain(ctx context.Context, cfg *config.AIConfig) []Provider {
	chain := make([]Provider, 0, len(cfg.Chain))
	for _, name := range cfg.Chain {
		p, err := Build(ctx, name, cfg)
		if err != nil {
			event := log.Warn()
			if !errors.Is(err, ErrNotConfigured) {
				event = log.Error()
			}
			event.Err(err).Str("provider", name).Msg("provider skipped")
			continue
		}
		chain = append(chain, p)
	}
	return chain
}
