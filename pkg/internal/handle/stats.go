package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
)

// UsageStats 返回当前用户的用量与配额占用.
func UsageStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	svc := service.NewStatsService(c.Request.Context())

	resp, err := svc.Usage(c.Request.Context(), userID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// FileStats 返回按状态/类型/大小分桶的文件统计.
func FileStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	svc := service.NewStatsService(c.Request.Context())

	resp, err := svc.Files(c.Request.Context(), userID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// FileTrend 返回最近 N 天的按日上传趋势，默认 7 天.
func FileTrend(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})

			return
		}

		days = n
	}

	svc := service.NewStatsService(c.Request.Context())

	resp, err := svc.Trend(c.Request.Context(), userID, days)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
