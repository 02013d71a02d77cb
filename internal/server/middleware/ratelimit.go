package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalyst/internal/pkg/cache"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/pkg/metrics"
)

// RateLimitOptions 固定窗口限流参数
type RateLimitOptions struct {
	Scope  string
	Limit  int64
	Window time.Duration
	// Subject 返回限流对象（IP 或用户 ID），为空时不限流
	Subject func(c *gin.Context) string
	Now     func() time.Time
}

// ByIP 按客户端 IP 限流
func ByIP(c *gin.Context) string { return c.ClientIP() }

// ByUser 按登录用户限流，必须放在 Auth 之后
func ByUser(c *gin.Context) string { return c.GetString("user_id") }

// RateLimit 固定窗口限流，计数保存在临时存储中
// 临时存储出错时放行请求
func RateLimit(store cache.Store, opts RateLimitOptions) gin.HandlerFunc {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Subject == nil {
		opts.Subject = ByIP
	}

	return func(c *gin.Context) {
		subject := opts.Subject(c)
		if subject == "" || opts.Limit <= 0 || opts.Window <= 0 {
			c.Next()
			return
		}

		windowStart := opts.Now().Truncate(opts.Window)
		key := cache.RateLimitKey(opts.Scope, subject, windowStart)

		count, err := store.Incr(c.Request.Context(), key, opts.Window)
		if err != nil {
			log.Warn().Err(err).Str("scope", opts.Scope).Msg("Rate limit counter unavailable, allowing request")
			c.Next()
			return
		}

		remaining := max(opts.Limit-count, 0)
		c.Header("X-RateLimit-Limit", strconv.FormatInt(opts.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > opts.Limit {
			metrics.Global().RateLimitRejected.Inc()
			retryAfter := windowStart.Add(opts.Window).Sub(opts.Now())
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			httpx.Abort(c, http.StatusTooManyRequests, httpx.CodeTooManyRequests, "Too many requests, try again later")
			return
		}
		c.Next()
	}
}
