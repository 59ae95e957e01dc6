// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/middleware"
)

// NotFound 未匹配路由的兜底响应.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// currentUserID 取认证中间件注入的用户 ID.
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}

	id, ok := v.(uint)

	return id, ok
}

// requireUser 无认证上下文时直接写 401.
func requireUser(c *gin.Context) (uint, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}

	return id, ok
}

// statusOf 将业务错误映射为 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyProcessing),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotYetAnalyzed),
		errors.Is(err, service.ErrExtensionNotAllowed),
		errors.Is(err, service.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInactiveUser):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// abortWith 统一错误响应.
func abortWith(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}
