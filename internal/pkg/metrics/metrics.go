package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 应用指标
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	ProviderCalls     *prometheus.CounterVec // 按 provider + 结果统计
	ProviderLatency   *prometheus.HistogramVec
	FallbackReplies   prometheus.Counter
	ImageGenerations  *prometheus.CounterVec
	RateLimitRejected prometheus.Counter
}

var (
	once   sync.Once
	global *Metrics
)

// Global 获取全局指标（首次调用时注册）
func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "catalyst",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status class",
			}, []string{"method", "route", "status"}),
			ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "catalyst",
				Name:      "provider_calls_total",
				Help:      "Generation provider calls by outcome",
			}, []string{"provider", "outcome"}),
			ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "catalyst",
				Name:      "provider_latency_seconds",
				Help:      "Generation provider call latency",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
			}, []string{"provider"}),
			FallbackReplies: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "catalyst",
				Name:      "fallback_replies_total",
				Help:      "Replies served from canned responses",
			}),
			ImageGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "catalyst",
				Name:      "image_generations_total",
				Help:      "Image requests by result (svg/placeholder/error)",
			}, []string{"result"}),
			RateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "catalyst",
				Name:      "rate_limit_rejected_total",
				Help:      "Requests rejected by the rate limiter",
			}),
		}
		prometheus.MustRegister(
			global.HTTPRequests,
			global.ProviderCalls,
			global.ProviderLatency,
			global.FallbackReplies,
			global.ImageGenerations,
			global.RateLimitRejected,
		)
	})
	return global
}
