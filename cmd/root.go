package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"catalyst/internal/config"
	"catalyst/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalyst",
	Short: "Catalyst - AI chat API",
	Long: `Catalyst is the backend of a browser-based AI chat application.
It serves conversations, context-aware replies with provider fallback,
SVG image generation and admin usage statistics.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.catalyst")
	}

	// 环境变量设置
	viper.SetEnvPrefix("CATALYST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 7080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// AI
	viper.SetDefault("ai.chain", []string{"gemini", "raikken"})
	viper.SetDefault("ai.timeout", "20s")
	viper.SetDefault("ai.history_window", 6)
	viper.SetDefault("ai.max_prompt_chars", 12000)
	viper.SetDefault("ai.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.temperature", 0.8)
	viper.SetDefault("ai.gemini.top_k", 40)
	viper.SetDefault("ai.gemini.top_p", 0.9)
	viper.SetDefault("ai.gemini.max_output_tokens", 1000)
	viper.SetDefault("ai.raikken.base_url", "https://raikken-api.speedhosting.cloud/api/ia/gemini")
	viper.SetDefault("ai.chat_model.provider", "openai")
	viper.SetDefault("ai.chat_model.model", "gpt-4o-mini")
	viper.SetDefault("ai.chat_model.options.temperature", 0.8)
	viper.SetDefault("ai.chat_model.options.max_tokens", 1000)
	viper.SetDefault("ai.image.provider", "gemini")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// Database
	viper.SetDefault("database.driver", "mongo")
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_open_conns", 20)
	viper.SetDefault("database.conn_max_lifetime", "30m")
	viper.SetDefault("database.log_level", "warn")

	// MongoDB
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "catalyst")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "catalyst:")

	// 进程内临时存储
	viper.SetDefault("cache.size", 10000)
	viper.SetDefault("cache.default_ttl", "1h")

	// Auth
	viper.SetDefault("auth.access_token_expiry", "24h")
	viper.SetDefault("auth.refresh_token_expiry", "168h")
	viper.SetDefault("auth.totp_issuer", "Catalyst IA")
	viper.SetDefault("auth.pending_totp_expiry", "10m")

	// Rate limit
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.window", "15m")
	viper.SetDefault("rate_limit.max_requests", 1000)
	viper.SetDefault("rate_limit.max_ai", 100)
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
