package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/log"
)

// pathFileID 解析路径参数中的文件 ID.
func pathFileID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})

		return 0, false
	}

	return uint(id), true
}

// UploadFile 接收 multipart 上传.
//
//	@Summary		上传表格文件
//	@Description	表单字段 file 携带文件，扩展名限 csv/xlsx/xls/json/txt.
//	@Tags			文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"上传文件"
//	@Success		201		{object}	types.UploadResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string	"存储配额不足"
//	@Failure		413		{object}	map[string]string	"超出单文件大小上限"
//	@Router			/api/v1/files/upload [post]
func UploadFile(c *gin.Context) {
	l := log.Logger()

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing form field 'file'"})

		return
	}

	src, err := fh.Open()
	if err != nil {
		l.Error().Err(err).Msg("open multipart file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})

		return
	}
	defer src.Close()

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Upload(c.Request.Context(), userID,
		fh.Filename, src, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		l.Warn().Err(err).Uint("user_id", userID).Str("filename", fh.Filename).Msg("upload rejected")
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListFiles 列出当前用户的文件.
func ListFiles(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.FileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.List(c.Request.Context(), userID, &req)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFile 返回文件详情.
func GetFile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateFile 修改文件名或可见性.
func UpdateFile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	var req types.FileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return
	}

	svc := service.NewFileService(c.Request.Context())

	resp, err := svc.Update(c.Request.Context(), userID, fileID, &req)
	if err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteFile 软删除文件并返还配额.
func DeleteFile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileID, ok := pathFileID(c)
	if !ok {
		return
	}

	svc := service.NewFileService(c.Request.Context())
	if err := svc.SoftDelete(c.Request.Context(), userID, fileID); err != nil {
		abortWith(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
