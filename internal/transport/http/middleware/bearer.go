package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-user-admin-api/internal/core/auth"
	"go-user-admin-api/internal/domain"
	resp "go-user-admin-api/internal/transport/http/response"
)

const keyIdentity = "identity"

// AuthBearer 解析 Bearer token 并把 sub 重新落库解析成当前身份。
// 不信任 token 里自带的 roles：签发之后用户可能已被降级/停用/删除，
// 每个请求都以库里的记录为准
func AuthBearer(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort401(c, "missing bearer token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abort401(c, "invalid token")
			return
		}
		u, err := users.FindByUsername(claims.Subject)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				resp.Err(http.StatusInternalServerError, ""))
			return
		}
		if u == nil {
			// 账号已删，签名再有效也拒绝
			abort401(c, "invalid token")
			return
		}
		c.Set(keyIdentity, u)
		c.Next()
	}
}

// RequireAdmin 必须挂在 AuthBearer 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := Identity(c)
		if u == nil {
			abort401(c, "missing bearer token")
			return
		}
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				resp.Err(http.StatusForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

// Identity 当前请求的执行身份；未经过 AuthBearer 时为 nil
func Identity(c *gin.Context) *domain.User {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func abort401(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Err(http.StatusUnauthorized, msg))
}
