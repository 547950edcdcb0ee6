package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"techshare/internal/core/auth"
	"techshare/internal/domain"
	resp "techshare/internal/transport/http/response"
)

// UserLoader 按 uid 加载用户并校验可用性（停用账号返回错误）
type UserLoader interface {
	Authenticate(uid uint) (*domain.User, error)
}

// AuthJWT 必须携带有效 token，加载的用户放入上下文
func AuthJWT(j *auth.JWTer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolveUser(c, j, users)
		if err != nil {
			c.AbortWithStatusJSON(resp.StatusOf(err), resp.Err(resp.Message(err)))
			return
		}
		c.Set("user", u)
		c.Set("userId", u.ID)
		c.Set("role", u.Role)
		c.Next()
	}
}

// OptionalAuthJWT 匿名可访问的端点也想知道访问者是谁时使用；
// token 缺失或无效一律当匿名处理
func OptionalAuthJWT(j *auth.JWTer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := resolveUser(c, j, users); err == nil {
			c.Set("user", u)
			c.Set("userId", u.ID)
			c.Set("role", u.Role)
		}
		c.Next()
	}
}

// RequireRole 登录基础上再限定角色
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, resp.Err("not enough permissions"))
	}
}

func resolveUser(c *gin.Context, j *auth.JWTer, users UserLoader) (*domain.User, error) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, domain.Unauthorized("not authenticated")
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, domain.Unauthorized("could not validate credentials")
	}
	return users.Authenticate(claims.UID)
}
