package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalyst/internal/ai"
	"catalyst/internal/ai/fallback"
	"catalyst/internal/ai/prompt"
	"catalyst/internal/ai/provider"
	"catalyst/internal/config"
	"catalyst/internal/handler"
	authHandler "catalyst/internal/handler/auth"
	"catalyst/internal/pkg/cache"
	"catalyst/internal/pkg/jwt"
	"catalyst/internal/pkg/otp"
	"catalyst/internal/pkg/storagefactory"
	"catalyst/internal/repository"
	"catalyst/internal/repository/session"
	"catalyst/internal/server/middleware"
	"catalyst/internal/service"
)

// Deps 服务器依赖，测试时可直接注入
type Deps struct {
	Store     repository.Store
	Cache     cache.Store
	Providers []provider.Provider
	Image     provider.Provider   // nil 表示未配置图片生成
	Responder *fallback.Responder // nil 使用默认兜底回复
}

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	deps   Deps
}

// New 根据配置创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	store, err := storagefactory.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open durable store: %w", err)
	}
	log.Info().Str("driver", store.Name()).Msg("durable store connected")

	deps := Deps{
		Store:     store,
		Cache:     storagefactory.NewCache(cfg),
		Providers: provider.BuildChain(ctx, &cfg.AI),
	}

	if name := cfg.AI.Image.Provider; name != "" {
		image, err := provider.Build(ctx, name, &cfg.AI)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("image provider unavailable, continuing without it")
		} else {
			deps.Image = image
		}
	}

	return NewWithDeps(cfg, deps), nil
}

// NewWithDeps 使用已构建的依赖创建服务器
func NewWithDeps(cfg *config.Config, deps Deps) *Server {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
		deps:   deps,
	}
	srv.setupRoutes()

	return srv
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	cfg := s.cfg
	store := s.deps.Store

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	refreshTokenExpiry := cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}
	pendingExpiry := cfg.Auth.PendingTOTPExpiry
	if pendingExpiry == 0 {
		pendingExpiry = 10 * time.Minute
	}

	tokens := jwt.NewJWT(jwtSecret, "catalyst", accessTokenExpiry)
	totp := otp.New(cfg.Auth.TOTPIssuer, 1)

	// 业务服务
	dispatcher := ai.NewDispatcher(s.deps.Providers, s.deps.Responder, cfg.AI.Timeout)
	images := service.NewImageService(s.deps.Image, cfg.AI.Timeout)
	authSvc := service.NewAuthService(store.Users(), session.NewRefreshTokenRepo(s.deps.Cache), tokens, totp, refreshTokenExpiry)
	chatSvc := service.NewChatService(store, prompt.NewAssembler(cfg.AI.Persona, cfg.AI.MaxPromptChars), dispatcher, images, cfg.AI.HistoryWindow)
	securitySvc := service.NewSecurityService(store.Users(), session.NewPendingTOTPRepo(s.deps.Cache, pendingExpiry), totp)

	authHdl := authHandler.NewHandler(authSvc)
	chatHdl := handler.NewChatHandler(chatSvc)
	convHdl := handler.NewConversationHandler(service.NewConversationService(store))
	imageHdl := handler.NewImageHandler(images)
	profileHdl := handler.NewProfileHandler(service.NewProfileService(store.Users()))
	securityHdl := handler.NewSecurityHandler(securitySvc)
	adminHdl := handler.NewAdminHandler(service.NewAdminService(store))
	healthHdl := handler.NewHealthHandler(store, s.deps.Cache, dispatcher.Providers(), images.Available())

	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// 健康检查
	s.engine.GET("/health", healthHdl.Health)
	s.engine.GET("/ready", healthHdl.Ready)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(s.deps.Cache, middleware.RateLimitOptions{
			Scope:  "api",
			Limit:  cfg.RateLimit.MaxRequests,
			Window: cfg.RateLimit.Window,
		}))
	}

	// 认证接口（公开）
	api.POST("/auth/register", authHdl.Register)
	api.POST("/auth/login", authHdl.Login)
	api.POST("/auth/refresh", authHdl.Refresh)

	// 需要认证的接口
	authed := api.Group("")
	authed.Use(middleware.Auth(tokens))
	{
		authed.POST("/auth/logout", authHdl.Logout)
		authed.GET("/auth/me", authHdl.Me)
		authed.GET("/health", healthHdl.Status)

		authed.GET("/user/profile", profileHdl.Get)
		authed.PUT("/user/profile", profileHdl.Update)

		authed.POST("/security/2fa/setup", securityHdl.Setup)
		authed.POST("/security/2fa/enable", securityHdl.Enable)
		authed.POST("/security/2fa/disable", securityHdl.Disable)

		authed.GET("/conversations", convHdl.List)
		authed.POST("/conversations", convHdl.Create)
		authed.GET("/conversations/:id", convHdl.Get)
		authed.PATCH("/conversations/:id/system-prompt", convHdl.UpdateSystemPrompt)
		authed.DELETE("/conversations/:id", convHdl.Delete)
		authed.GET("/conversations/:id/messages", convHdl.Messages)

		// AI 接口单独按用户限流
		generation := authed.Group("")
		if cfg.RateLimit.Enabled {
			generation.Use(middleware.RateLimit(s.deps.Cache, middleware.RateLimitOptions{
				Scope:   "ai",
				Limit:   cfg.RateLimit.MaxAI,
				Window:  cfg.RateLimit.Window,
				Subject: middleware.ByUser,
			}))
		}
		generation.POST("/conversations/:id/messages", chatHdl.SendMessage)
		generation.POST("/generate-image", imageHdl.Generate)
	}

	// 管理接口
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/stats", adminHdl.Stats)
		admin.GET("/users", adminHdl.Users)
		admin.GET("/conversations", adminHdl.Conversations)
		admin.PATCH("/users/:id/role", adminHdl.UpdateRole)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close(shutdownCtx)
		return err
	case err := <-errCh:
		s.Close(context.Background())
		return err
	}
}

// Close 关闭存储连接
func (s *Server) Close(ctx context.Context) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close durable store")
		}
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close cache")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
