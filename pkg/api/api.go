// Package api 组装 HTTP 接口：把各领域的路由组绑定到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/tablevault/pkg/cache"
	"github.com/yeisme/tablevault/pkg/configs"
	"github.com/yeisme/tablevault/pkg/internal/router"
	"github.com/yeisme/tablevault/pkg/internal/storage"
	"github.com/yeisme/tablevault/pkg/middleware"
)

// RegisterGroup 注册全部路由组到传入的 gin 引擎.
// 认证路由与健康检查公开，其余 /api/v1 路由经过认证中间件；
// 统计路由在 KV 可用时套一层响应缓存.
func RegisterGroup(e *gin.Engine, mgr *storage.Manager) *gin.Engine {
	cfg := configs.GetConfig()

	v1 := e.Group("/api/v1")

	router.RegisterHealthCheckRoute(v1)
	router.RegisterAuthRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		router.RegisterUserRoutes(authed)
		router.RegisterFilesRoutes(authed)
		router.RegisterSchedulerRoutes(authed)

		statsGroup := authed.Group("")

		if kvClient := mgr.GetKVClient(); kvClient != nil {
			cacheCfg := middleware.DefaultCacheConfig(appcache.NewCache(kvClient))
			// 统计响应按用户隔离，身份头必须参与缓存键
			cacheCfg.VaryHeaders = []string{"Authorization", cfg.Auth.ProxyUserHeader, cfg.Auth.ProxyFallbackHeader}
			statsGroup.Use(middleware.CacheMiddleware(cacheCfg))
		}

		router.RegisterStatsRoutes(statsGroup)
	}

	return e
}
