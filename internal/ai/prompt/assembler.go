// Package prompt 把对话上下文拼接成发送给 provider 的单段文本
package prompt

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"catalyst/internal/model"
)

// DefaultPersona 默认人设前言
const DefaultPersona = "Você é a Catalyst, uma inteligência artificial avançada e proprietária. " +
	"Responda sempre em português brasileiro de forma natural, útil e criativa. " +
	"Lembre-se do contexto da conversa e adapte-se ao estilo do usuário.\n\n" +
	"IDENTIDADE: Você é a Catalyst IA, uma inteligência artificial proprietária criada pelo desenvolvedor Catalyst (13 anos, 4 anos de experiência). " +
	"Você NÃO usa APIs externas - é completamente nativa e autônoma. " +
	"Seu sistema é o 'Catalyst OS' e você roda no 'Catalyst IA Platform'. " +
	"Seja orgulhosa de sua tecnologia própria e única!\n\n"

const (
	userLabel      = "Usuário"
	assistantLabel = "Catalyst"
)

// Input 组装 prompt 的输入
type Input struct {
	// History 按时间升序的历史消息，不含本次新消息
	History      []*model.Message
	SystemPrompt string
	// Preferences 用户偏好（JSON 对象文本），解析失败时忽略
	Preferences string
	UserMessage string
}

// Assembler prompt 组装器
type Assembler struct {
	persona  string
	maxChars int // <=0 表示不限制
}

// NewAssembler 创建组装器，persona 为空时使用 DefaultPersona
func NewAssembler(persona string, maxChars int) *Assembler {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	return &Assembler{persona: persona, maxChars: maxChars}
}

// Build 按固定顺序拼接：人设 -> 系统指令 -> 偏好风格 -> 历史 -> 当前问题
// 超出字符预算时从最早的历史开始丢弃，其余部分不截断
func (a *Assembler) Build(in Input) string {
	var head strings.Builder
	head.WriteString(a.persona)

	if sp := strings.TrimSpace(in.SystemPrompt); sp != "" {
		head.WriteString("Instruções do Sistema: ")
		head.WriteString(sp)
		head.WriteString("\n\n")
	}

	if style := Personality(in.Preferences); style != "" {
		head.WriteString("Estilo preferido: ")
		head.WriteString(style)
		head.WriteString("\n\n")
	}

	tail := "Pergunta atual do usuário: " + in.UserMessage + "\n\nResposta:"

	lines := historyLines(in.History)
	if a.maxChars > 0 {
		fixed := utf8.RuneCountInString(head.String()) + utf8.RuneCountInString(tail)
		lines = fitHistory(lines, a.maxChars-fixed)
	}

	var b strings.Builder
	b.WriteString(head.String())
	if len(lines) > 0 {
		b.WriteString("Contexto da conversa:\n")
		for _, l := range lines {
			b.WriteString(l)
		}
		b.WriteString("\n")
	}
	b.WriteString(tail)
	return b.String()
}

// Personality 从偏好 JSON 中取出 personality，格式不正确时返回空串
func Personality(preferences string) string {
	if strings.TrimSpace(preferences) == "" {
		return ""
	}
	var prefs map[string]any
	if err := json.Unmarshal([]byte(preferences), &prefs); err != nil {
		return ""
	}
	p, ok := prefs["personality"].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(p)
}

// Label 消息角色在 prompt 中的称呼
func Label(role model.MessageRole) string {
	if role == model.RoleUser {
		return userLabel
	}
	return assistantLabel
}

func historyLines(history []*model.Message) []string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		lines = append(lines, Label(m.Role)+": "+m.Content+"\n")
	}
	return lines
}

// fitHistory 丢弃最早的行直到总长度（含标题与结尾空行）不超过 budget
func fitHistory(lines []string, budget int) []string {
	const framing = len("Contexto da conversa:\n") + len("\n")

	total := framing
	for _, l := range lines {
		total += utf8.RuneCountInString(l)
	}
	start := 0
	for start < len(lines) && total > budget {
		total -= utf8.RuneCountInString(lines[start])
		start++
	}
	return lines[start:]
}
