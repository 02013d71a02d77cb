package service

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"catalyst/internal/ai/provider"
	"catalyst/internal/pkg/metrics"
)

var (
	ErrEmptyPrompt              = errors.New("prompt is required")
	ErrImageProviderUnavailable = errors.New("image provider is not configured")
	ErrImageSynthesis           = errors.New("image provider failed")
)

const (
	svgDataURIPrefix   = "data:image/svg+xml;base64,"
	defaultImageSize   = "512x512"
	placeholderRunes   = 40
	imageSuccessReason = "Imagem gerada com sucesso usando Catalyst!"
)

var (
	svgPattern  = regexp.MustCompile(`(?is)<svg.*?</svg>`)
	sizePattern = regexp.MustCompile(`^[1-9][0-9]{1,3}x[1-9][0-9]{1,3}$`)
)

const imageInstruction = `Crie um código SVG completo e detalhado (%spx) para: %s.

Retorne APENAS o código SVG, sem explicações. Use cores vibrantes, gradientes e formas geométricas criativas.
O SVG deve ser visualmente atrativo e representar bem o conceito solicitado.`

const placeholderTemplate = `<svg width="512" height="512" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad1" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#667eea;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:#764ba2;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="100%%" height="100%%" fill="url(#grad1)"/>
  <text x="50%%" y="30%%" text-anchor="middle" fill="#fff" font-size="20" font-family="Arial, sans-serif" font-weight="bold">Imagem Gerada</text>
  <text x="50%%" y="50%%" text-anchor="middle" fill="#fff" font-size="14" font-family="Arial, sans-serif">%s</text>
  <text x="50%%" y="70%%" text-anchor="middle" fill="#fff" font-size="12" font-family="Arial, sans-serif" opacity="0.8">Powered by Catalyst</text>
  <circle cx="256" cy="380" r="50" fill="#fff" opacity="0.2"/>
  <circle cx="256" cy="380" r="30" fill="#fff" opacity="0.3"/>
</svg>`

// ImageService SVG 图片生成
// 只有一个 provider，provider 调用失败直接返回错误；返回内容中没有 SVG 时使用占位图
type ImageService struct {
	provider provider.Provider
	timeout  time.Duration
}

// NewImageService 创建图片服务，p 为 nil 表示未配置
func NewImageService(p provider.Provider, timeout time.Duration) *ImageService {
	return &ImageService{provider: p, timeout: timeout}
}

// Available 是否配置了图片 provider
func (s *ImageService) Available() bool {
	return s != nil && s.provider != nil
}

// SuccessMessage 成功响应中的提示语
func (s *ImageService) SuccessMessage() string {
	return imageSuccessReason
}

// Generate 生成 SVG 并编码为 data URI
func (s *ImageService) Generate(ctx context.Context, prompt, size string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if !s.Available() {
		return "", ErrImageProviderUnavailable
	}
	if !sizePattern.MatchString(size) {
		size = defaultImageSize
	}

	m := metrics.Global()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.provider.Generate(ctx, fmt.Sprintf(imageInstruction, size, prompt))
	if err != nil {
		m.ImageGenerations.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("provider", s.provider.Name()).Msg("Image provider failed")
		return "", fmt.Errorf("%w: %v", ErrImageSynthesis, err)
	}

	svg, ok := ExtractSVG(raw)
	if ok {
		m.ImageGenerations.WithLabelValues("svg").Inc()
	} else {
		m.ImageGenerations.WithLabelValues("placeholder").Inc()
		log.Warn().Str("provider", s.provider.Name()).Msg("No <svg> in provider output, using placeholder")
		svg = Placeholder(prompt)
	}

	return EncodeSVG(svg), nil
}

// ExtractSVG 返回文本中第一个完整的 <svg>...</svg> 片段
func ExtractSVG(raw string) (string, bool) {
	svg := svgPattern.FindString(raw)
	return svg, svg != ""
}

// Placeholder 生成包含提示词的占位 SVG，相同输入总是得到相同输出
func Placeholder(prompt string) string {
	text := prompt
	if utf8.RuneCountInString(text) > placeholderRunes {
		text = string([]rune(text)[:placeholderRunes]) + "..."
	}

	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(text))
	return fmt.Sprintf(placeholderTemplate, escaped.String())
}

// EncodeSVG 编码为 base64 data URI
func EncodeSVG(svg string) string {
	return svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg))
}
