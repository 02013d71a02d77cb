package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalyst/internal/model"
)

// Pinger 可探活的依赖
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	store  Pinger
	cache  Pinger
	chain  []string
	images bool
}

// NewHealthHandler 创建健康检查处理器
// store 为 nil 表示持久化存储未连接
func NewHealthHandler(store, cache Pinger, chain []string, imagesEnabled bool) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, chain: chain, images: imagesEnabled}
}

// Health 存活检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查，持久化存储和临时存储都可用才返回 200
func (h *HealthHandler) Ready(c *gin.Context) {
	database := h.probe(c.Request.Context(), h.store)
	cache := h.probe(c.Request.Context(), h.cache)

	status := http.StatusOK
	state := "ready"
	if database != "ok" || cache != "ok" {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	c.JSON(status, gin.H{
		"status":   state,
		"database": database,
		"cache":    cache,
	})
}

// Status 服务状态详情
// @Summary      服务状态
// @Description  存储连接状态和当前 provider 链；任一依赖不可用或 provider 链为空时为 degraded
// @Tags         系统
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.HealthStatus
// @Router       /api/health [get]
func (h *HealthHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	resp := model.HealthStatus{
		Status:   "operational",
		Database: h.probe(ctx, h.store),
		Cache:    h.probe(ctx, h.cache),
		Services: make(map[string]string, len(h.chain)+2),
		Chain:    h.chain,
	}
	if resp.Chain == nil {
		resp.Chain = []string{}
	}

	for _, name := range h.chain {
		resp.Services[name] = "configured"
	}
	resp.Services["fallback"] = "available"
	if h.images {
		resp.Services["image"] = "configured"
	} else {
		resp.Services["image"] = "unavailable"
	}

	if resp.Database != "ok" || resp.Cache != "ok" || len(h.chain) == 0 {
		resp.Status = "degraded"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "unavailable"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("dependency", p.Name()).Msg("Health probe failed")
		return "error"
	}
	return "ok"
}
