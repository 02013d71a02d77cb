package ctxutil

import "context"

// 使用私有类型避免与其他 context key 冲突
type userIDKeyType struct{}
type roleKeyType struct{}

var (
	userIDKey = userIDKeyType{}
	roleKey   = roleKeyType{}
)

// WithUser 将 userID 和角色注入到 context 中
// 在认证中间件解析 JWT 成功后调用：
//
//	ctx := ctxutil.WithUser(c.Request.Context(), claims.UserID, claims.Role)
//	c.Request = c.Request.WithContext(ctx)
func WithUser(ctx context.Context, userID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID 从 context 中解析 userID
// 返回值：
//   - string: 解析到的 userID
//   - bool  : 是否存在有效的 userID
func GetUserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetRole 从 context 中解析角色
func GetRole(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	role, _ := ctx.Value(roleKey).(string)
	return role
}
