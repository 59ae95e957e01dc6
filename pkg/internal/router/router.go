// Package router 管理路由配置，用于设置HTTP服务的路由规则.
// router 包只负责将路径和处理器绑定到 gin 引擎，
// 处理器的实现由 pkg/internal/handle 提供.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/handle"
)

// RegisterAuthRoutes 注册认证路由，全部公开访问.
func RegisterAuthRoutes(g *gin.RouterGroup) {
	authRoutes := g.Group("/auth")
	{
		authRoutes.POST("/register", handle.Register)
		authRoutes.POST("/login", handle.Login)
		authRoutes.POST("/refresh", handle.Refresh)
		authRoutes.POST("/logout", handle.Logout)
		authRoutes.POST("/verify-email", handle.VerifyEmail)
		authRoutes.POST("/password-reset", handle.RequestPasswordReset)
		authRoutes.POST("/password-reset/confirm", handle.ConfirmPasswordReset)
	}
}

// RegisterUserRoutes 注册当前用户路由，需认证.
func RegisterUserRoutes(g *gin.RouterGroup) {
	g.GET("/users/me", handle.Me)
}
