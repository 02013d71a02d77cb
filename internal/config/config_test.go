package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 7080, Mode: "release"},
		Database: DatabaseConfig{Driver: "mongo"},
		Mongo:    MongoConfig{URI: "mongodb://localhost:27017"},
		AI:       AIConfig{HistoryWindow: 6, Timeout: 20 * time.Second},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Config.Validate", t, func() {
		Convey("默认 mongo 配置有效", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("端口越界", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知运行模式", func() {
			cfg := validConfig()
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("sqlite 需要 dsn", func() {
			cfg := validConfig()
			cfg.Database.Driver = "sqlite"
			So(cfg.Validate(), ShouldNotBeNil)

			cfg.Database.DSN = "file:catalyst.db"
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("不支持的驱动", func() {
			cfg := validConfig()
			cfg.Database.Driver = "mysql"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("history_window 必须为正", func() {
			cfg := validConfig()
			cfg.AI.HistoryWindow = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}
