package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/log"
)

// AnalyzeFile 触发后台分析.
//
//	@Summary		触发文件分析
//	@Description	受理后立即返回 202，分析在后台执行；重复触发返回 409.
//	@Tags			分析
//	@Produce		json
//	@Param			id	path		int	true	"文件 ID"
//	@Success		202	{object}	types.AnalyzeResponse
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string	"分析已在进行中"
//	@Router			/api/v1/files/{id}/analyze [post]
func AnalyzeFile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewAnalysisService(c.Request.Context())

	resp, err := svc.Trigger(c.Request.Context(), userID, fileID)
	if err != nil {
		log.Logger().Warn().Err(err).Uint("file_id", fileID).Msg("analysis trigger rejected")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// GetAnalysisResults 查询分析结果，响应形状随状态变化.
func GetAnalysisResults(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewAnalysisService(c.Request.Context())

	resp, err := svc.Results(c.Request.Context(), userID, fileID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
