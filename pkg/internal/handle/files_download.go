package handle

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/log"
)

// DownloadFile 下载文件原始内容.
func DownloadFile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	file, rc, err := svc.Download(c.Request.Context(), userID, fileID)
	if err != nil {
		abortWith(c, err)

		return
	}
	defer rc.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", fmt.Sprintf("%d", file.Size))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Logger().Warn().Err(err).Uint("file_id", fileID).Msg("download stream interrupted")
	}
}

// GetFileMetadata 仅返回分析元数据.
func GetFileMetadata(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Metadata(c.Request.Context(), userID, fileID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
