package types

import "time"

// FileResponse 单个文件记录响应.
type FileResponse struct {
	ID          uint       `json:"id"`
	Filename    string     `json:"filename"`
	FileType    string     `json:"file_type"`
	MimeType    string     `json:"mime_type,omitempty"`
	Size        int64      `json:"size"`
	Status      string     `json:"status"`
	IsPublic    bool       `json:"is_public"`
	RowCount    *int64     `json:"row_count,omitempty"`
	ColumnCount *int       `json:"column_count,omitempty"`
	ErrorMsg    string     `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	AccessedAt  *time.Time `json:"accessed_at,omitempty"`
}

// FileDetailResponse 文件详情，含分析元数据与结果.
type FileDetailResponse struct {
	FileResponse
	Metadata *TableMetadata   `json:"metadata,omitempty"`
	Results  *AnalysisResults `json:"results,omitempty"`
}

// FileListRequest 文件列表查询参数.
type FileListRequest struct {
	Page     int    `form:"page"      rule:"omitempty,min=1"`
	PageSize int    `form:"page_size" rule:"omitempty,min=1,max=200"`
	Status   string `form:"status"    rule:"omitempty,oneof=uploaded processing completed failed"`
	FileType string `form:"file_type" rule:"omitempty,max=16"`
}

// FileListResponse 文件列表响应.
type FileListResponse struct {
	Files    []FileResponse `json:"files"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// FileUpdateRequest 文件元数据更新请求，均为可选字段.
type FileUpdateRequest struct {
	Filename *string `json:"filename"  rule:"omitempty,min=1,max=255"`
	IsPublic *bool   `json:"is_public"`
}

// FileMetadataResponse 仅返回分析元数据.
type FileMetadataResponse struct {
	ID       uint           `json:"id"`
	Filename string         `json:"filename"`
	Status   string         `json:"status"`
	Metadata *TableMetadata `json:"metadata,omitempty"`
}

// UploadResponse 上传成功响应.
type UploadResponse struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
}
