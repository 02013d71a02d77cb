// Package fallback 本地兜底回复：所有 provider 都失败时按关键词规则选择固定回复
package fallback

import (
	"math/rand"
	"strings"
)

// Emergency 调度本身出现异常时使用的最后一条回复
const Emergency = "Os serviços de IA estão com problemas no momento. Tente novamente em alguns minutos."

// Rule 关键词规则，Match 接收已转小写的用户消息
type Rule struct {
	Name  string
	Match func(lower string) bool
	Reply string
}

// Responder 兜底回复生成器
// 规则按顺序匹配，第一条命中的规则原样返回；都未命中时从 Pool 中选一条
type Responder struct {
	Rules []Rule
	Pool  []string
	pick  func(n int) int
}

// NewResponder 创建兜底回复生成器，pick 为 nil 时随机选择
func NewResponder(rules []Rule, pool []string, pick func(n int) int) *Responder {
	if pick == nil {
		pick = rand.Intn
	}
	if len(pool) == 0 {
		pool = []string{Emergency}
	}
	return &Responder{Rules: rules, Pool: pool, pick: pick}
}

// Default 使用内置规则和回复池
func Default() *Responder {
	return NewResponder(DefaultRules(), DefaultPool(), nil)
}

// Reply 返回非空回复
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range r.Rules {
		if rule.Match != nil && rule.Match(lower) {
			return rule.Reply
		}
	}
	i := r.pick(len(r.Pool))
	if i < 0 || i >= len(r.Pool) {
		i = 0
	}
	return r.Pool[i]
}

// Matched 返回命中的规则名，未命中返回空串
func (r *Responder) Matched(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range r.Rules {
		if rule.Match != nil && rule.Match(lower) {
			return rule.Name
		}
	}
	return ""
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// all 所有词组都至少命中一个
func all(groups ...[]string) func(string) bool {
	return func(s string) bool {
		for _, g := range groups {
			if !containsAny(s, g...) {
				return false
			}
		}
		return true
	}
}

func words(w ...string) []string { return w }
