package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/configs"
	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/rule"
)

// UserIDKey 认证通过后写入 gin context 的用户 ID 键.
const UserIDKey = "auth.user_id"

// AuthMiddleware 统一身份认证，按配置二选一：
//   - jwt: 校验 Authorization: Bearer 访问令牌，本服务签发
//   - proxy: 信任身份代理（oauth2-proxy 等）注入的邮箱请求头，
//     本地按邮箱查找或创建用户记录
//
// 通过后把用户 ID 写入 gin context，供 handle 层读取.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := service.NewAuthService(c.Request.Context())

		switch conf.Mode {
		case configs.AuthModeProxy:
			email := strings.TrimSpace(c.GetHeader(conf.ProxyUserHeader))
			if email == "" {
				email = strings.TrimSpace(c.GetHeader(conf.ProxyFallbackHeader))
			}

			if err := rule.ValidateVar(email, "required,email"); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

				return
			}

			user, err := svc.ResolveProxyUser(c.Request.Context(), email)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})

				return
			}

			c.Set(UserIDKey, user.ID)

		default: // jwt
			token := bearerToken(c)
			if token == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})

				return
			}

			userID, err := svc.ParseAccessToken(token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})

				return
			}

			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

// bearerToken 提取 Authorization 头中的 Bearer 令牌.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")

	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
