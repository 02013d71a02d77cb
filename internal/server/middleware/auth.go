package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalyst/internal/model/auth"
	"catalyst/internal/pkg/ctxutil"
	httpx "catalyst/internal/pkg/http"
	"catalyst/internal/pkg/jwt"
)

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后注入 user_id 和角色到 context
func Auth(jwtUtil *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.Abort(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Authentication required")
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httpx.Abort(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid authorization header")
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token expired"
			}
			httpx.Abort(c, http.StatusUnauthorized, httpx.CodeInvalidToken, msg)
			return
		}

		ctx := ctxutil.WithUser(c.Request.Context(), claims.UserID, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// RequireAdmin 只允许管理员访问，必须放在 Auth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.GetRole(c.Request.Context()) != string(auth.RoleAdmin) {
			httpx.Abort(c, http.StatusForbidden, httpx.CodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
