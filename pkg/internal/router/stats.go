package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/handle"
)

// RegisterStatsRoutes 注册统计相关路由，需认证.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	statsRoutes := g.Group("/stats")
	{
		statsRoutes.GET("/usage", handle.UsageStats)  // 配额与计数器
		statsRoutes.GET("/files", handle.FileStats)   // 按状态/类型/大小分桶
		statsRoutes.GET("/uploads", handle.FileTrend) // 按日上传趋势
	}
}
