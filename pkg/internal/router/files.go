package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件与分析相关路由，需认证.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 上传与列表
		filesRoutes.POST("/upload", handle.UploadFile)
		filesRoutes.GET("", handle.ListFiles)

		// 单个文件操作
		singleGroup := filesRoutes.Group("/:id")
		{
			singleGroup.GET("", handle.GetFile)
			singleGroup.PATCH("", handle.UpdateFile)
			singleGroup.DELETE("", handle.DeleteFile)
			singleGroup.GET("/download", handle.DownloadFile)
			singleGroup.GET("/metadata", handle.GetFileMetadata)

			// 分析管线
			singleGroup.POST("/analyze", handle.AnalyzeFile)
			singleGroup.GET("/results", handle.GetAnalysisResults)
		}
	}
}
