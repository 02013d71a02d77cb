package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"catalyst/internal/config"
)

// Raikken 备用 provider：GET ?prompt=&apikey=，响应 {resultado|output}
type Raikken struct {
	client *resty.Client
	apiKey string
}

type raikkenResponse struct {
	Resultado string `json:"resultado"`
	Output    string `json:"output"`
}

// NewRaikken 创建 Raikken 适配器
func NewRaikken(cfg *config.RaikkenConfig) (*Raikken, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("raikken: %w", ErrNotConfigured)
	}
	return &Raikken{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(60 * time.Second),
		apiKey: cfg.APIKey,
	}, nil
}

// Name 返回标识
func (r *Raikken) Name() string {
	return "raikken"
}

// Generate 以 query 参数发送 prompt
func (r *Raikken) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("prompt", prompt).
		SetQueryParam("apikey", r.apiKey).
		Get("")
	if err != nil {
		return "", fmt.Errorf("raikken request: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{Provider: r.Name(), StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return extractRaikkenText(resp.Body())
}

// extractRaikkenText 优先取 resultado，其次 output
func extractRaikkenText(raw []byte) (string, error) {
	var out raikkenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("raikken: %w: %v", ErrMalformedResponse, err)
	}
	text := out.Resultado
	if text == "" {
		text = out.Output
	}
	return clean(text)
}
