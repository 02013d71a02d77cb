package config

import (
	"errors"
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// AIConfig AI 服务配置
// Chain 决定 provider 的尝试顺序，全部失败后使用本地兜底回复
type AIConfig struct {
	Chain          []string        `mapstructure:"chain"`
	Timeout        time.Duration   `mapstructure:"timeout"`
	HistoryWindow  int             `mapstructure:"history_window"`   // 上下文窗口（包含当前消息）
	MaxPromptChars int             `mapstructure:"max_prompt_chars"` // prompt 字符预算，超出时从最早的历史开始裁剪
	Persona        string          `mapstructure:"persona"`
	Gemini         GeminiConfig    `mapstructure:"gemini"`
	Raikken        RaikkenConfig   `mapstructure:"raikken"`
	ChatModel      ChatModelConfig `mapstructure:"chat_model"`
	Image          ImageConfig     `mapstructure:"image"`
}

// GeminiConfig 主 provider（Google Gemini generateContent）
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	TopK            int     `mapstructure:"top_k"`
	TopP            float64 `mapstructure:"top_p"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// RaikkenConfig 备用 provider（GET + query 参数）
type RaikkenConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ChatModelConfig Eino ChatModel 配置 (openai/azure/ark)
type ChatModelConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ImageConfig 图片生成配置
type ImageConfig struct {
	Provider string `mapstructure:"provider"` // 使用 chain 中的哪个 provider 生成 SVG
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// DatabaseConfig 持久化存储配置
// Driver: mongo（默认）/ postgres / sqlite
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CacheConfig 进程内临时存储配置（Redis 不可用时使用）
type CacheConfig struct {
	Size       int           `mapstructure:"size"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`           // JWT密钥
	AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"`  // Access Token过期时间
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"` // Refresh Token过期时间
	TOTPIssuer         string        `mapstructure:"totp_issuer"`
	PendingTOTPExpiry  time.Duration `mapstructure:"pending_totp_expiry"` // 待确认 2FA 密钥有效期
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int64         `mapstructure:"max_requests"` // 每个 IP 在窗口内的请求上限
	MaxAI       int64         `mapstructure:"max_ai"`       // 每个用户在窗口内的 AI 请求上限
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Database.Driver {
	case "mongo", "":
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required when database.driver is mongo")
		}
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.AI.HistoryWindow < 1 {
		return errors.New("ai.history_window must be at least 1")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be positive")
	}

	return nil
}
