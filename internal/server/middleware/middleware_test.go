package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"catalyst/internal/pkg/cache"
	"catalyst/internal/pkg/ctxutil"
	"catalyst/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	tokens := jwt.NewJWT("secret", "catalyst", time.Hour)

	Convey("Auth", t, func() {
		engine := gin.New()
		engine.GET("/me", Auth(tokens), func(c *gin.Context) {
			uid, _ := ctxutil.GetUserID(c.Request.Context())
			c.String(http.StatusOK, uid+":"+ctxutil.GetRole(c.Request.Context()))
		})
		engine.GET("/admin", Auth(tokens), RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		Convey("缺少 Authorization 返回 401", func() {
			w := serve(engine, httptest.NewRequest(http.MethodGet, "/me", nil))
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("格式错误返回 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Token abc")
			So(serve(engine, req).Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("其他密钥签发的 token 返回 401", func() {
			forged, _ := jwt.NewJWT("other", "catalyst", time.Hour).GenerateToken("u1", "alice", "admin")
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+forged)
			So(serve(engine, req).Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("有效 token 注入用户和角色", func() {
			token, err := tokens.GenerateToken("u1", "alice", "user")
			So(err, ShouldBeNil)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := serve(engine, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "u1:user")

			req = httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			So(serve(engine, req).Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("管理员可以访问管理接口", func() {
			token, _ := tokens.GenerateToken("u2", "root", "admin")
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			So(serve(engine, req).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("CORS", t, func() {
		Convey("预检请求返回 204", func() {
			engine := gin.New()
			engine.Use(CORS([]string{"*"}))
			engine.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/x", nil)
			req.Header.Set("Origin", "http://app.local")
			w := serve(engine, req)
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})

		Convey("白名单只回显允许的来源", func() {
			engine := gin.New()
			engine.Use(CORS([]string{"http://app.local"}))
			engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Origin", "http://app.local")
			So(serve(engine, req).Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://app.local")

			req = httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Origin", "http://evil.local")
			So(serve(engine, req).Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}

func TestRequestIDAndRecovery(t *testing.T) {
	Convey("RequestID + Recovery", t, func() {
		engine := gin.New()
		engine.Use(Recovery(), RequestID())
		engine.GET("/panic", func(c *gin.Context) { panic("boom") })
		engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

		Convey("透传请求 ID", func() {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			req.Header.Set(RequestIDHeader, "abc-123")
			w := serve(engine, req)
			So(w.Body.String(), ShouldEqual, "abc-123")
			So(w.Header().Get(RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("没有请求 ID 时生成", func() {
			w := serve(engine, httptest.NewRequest(http.MethodGet, "/ok", nil))
			So(w.Header().Get(RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("panic 返回 500", func() {
			w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "50001")
		})
	})
}

// brokenCache Incr 总是失败
type brokenCache struct{ cache.Store }

func (brokenCache) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	Convey("RateLimit", t, func() {
		now := time.Date(2026, 1, 1, 10, 0, 30, 0, time.UTC)
		opts := RateLimitOptions{
			Scope:  "test",
			Limit:  2,
			Window: time.Minute,
			Now:    func() time.Time { return now },
		}

		Convey("超出限额返回 429，窗口结束后恢复", func() {
			engine := gin.New()
			engine.Use(RateLimit(cache.NewMemoryCache(10, time.Hour), opts))
			engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			So(serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, ShouldEqual, http.StatusOK)
			w := serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "0")

			w = serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil))
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Header().Get("Retry-After"), ShouldEqual, "31")

			now = now.Add(time.Minute)
			So(serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, ShouldEqual, http.StatusOK)
		})

		Convey("计数器不可用时放行", func() {
			engine := gin.New()
			engine.Use(RateLimit(brokenCache{}, opts))
			engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			for i := 0; i < 5; i++ {
				So(serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("没有限流对象时放行", func() {
			opts.Subject = ByUser
			engine := gin.New()
			engine.Use(RateLimit(cache.NewMemoryCache(10, time.Hour), opts))
			engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			for i := 0; i < 5; i++ {
				So(serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}
