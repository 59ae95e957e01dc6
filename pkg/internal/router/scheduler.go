package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册后台任务观测路由，需认证.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)
	g.GET("/scheduler/queue/waiting", handle.SchedulerQueueWaiting)
}
