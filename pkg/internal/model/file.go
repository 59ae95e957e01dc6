package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// FileStatus 文件分析状态.
type FileStatus string

const (
	// StatusUploaded 已上传，未分析.
	StatusUploaded FileStatus = "uploaded"
	// StatusProcessing 分析进行中.
	StatusProcessing FileStatus = "processing"
	// StatusCompleted 分析成功.
	StatusCompleted FileStatus = "completed"
	// StatusFailed 分析失败.
	StatusFailed FileStatus = "failed"
)

// artifactJSON 分析产物的序列化配置.
// map 键排序，保证同一输入重复分析产生逐位一致的产物文本.
var artifactJSON = sonic.Config{SortMapKeys: true}.Froze()

// Terminal 是否为终态（completed / failed）.
func (s FileStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid 是否为已知状态.
func (s FileStatus) Valid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// File 文件记录.
// 分析元数据与结果以 JSON 文本存储，便于跨方言迁移；未来可替换为 JSONB.
type File struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// OwnerID 所属用户，所有查询必须带 owner 条件
	OwnerID uint `gorm:"index;not null" json:"owner_id"`
	// StoredName 对象存储键，全局唯一
	StoredName string `gorm:"size:255;uniqueIndex" json:"stored_name"`
	Filename   string `gorm:"size:512;index"       json:"filename"`
	FileType   string `gorm:"size:16;index"        json:"file_type"`
	MimeType   string `gorm:"size:255"             json:"mime_type"`
	Size       int64  `gorm:"index"                json:"size"`

	Status   FileStatus `gorm:"size:16;index;default:uploaded" json:"status"`
	IsPublic bool       `gorm:"default:false"                  json:"is_public"`

	// 分析产物
	MetadataJSON string `gorm:"type:text" json:"-"`
	ResultsJSON  string `gorm:"type:text" json:"-"`
	ErrorMsg     string `gorm:"type:text" json:"-"`
	RowCount     *int64 `json:"row_count,omitempty"`
	ColumnCount  *int   `json:"column_count,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	AccessedAt  *time.Time `json:"accessed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SetMetadata 序列化并写入分析元数据.
func (f *File) SetMetadata(m *itypes.TableMetadata) error {
	if m == nil {
		f.MetadataJSON = ""

		return nil
	}

	b, err := artifactJSON.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	f.MetadataJSON = string(b)

	return nil
}

// Metadata 反序列化分析元数据，未分析时返回 nil.
func (f *File) Metadata() (*itypes.TableMetadata, error) {
	if f.MetadataJSON == "" {
		return nil, nil
	}

	var m itypes.TableMetadata
	if err := artifactJSON.Unmarshal([]byte(f.MetadataJSON), &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return &m, nil
}

// SetResults 序列化并写入分析结果.
func (f *File) SetResults(r *itypes.AnalysisResults) error {
	if r == nil {
		f.ResultsJSON = ""

		return nil
	}

	b, err := artifactJSON.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	f.ResultsJSON = string(b)

	return nil
}

// Results 反序列化分析结果，未分析时返回 nil.
func (f *File) Results() (*itypes.AnalysisResults, error) {
	if f.ResultsJSON == "" {
		return nil, nil
	}

	var r itypes.AnalysisResults
	if err := artifactJSON.Unmarshal([]byte(f.ResultsJSON), &r); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}

	return &r, nil
}

// ToResponse 转换为 API 响应结构.
func (f *File) ToResponse() itypes.FileResponse {
	return itypes.FileResponse{
		ID:          f.ID,
		Filename:    f.Filename,
		FileType:    f.FileType,
		MimeType:    f.MimeType,
		Size:        f.Size,
		Status:      string(f.Status),
		IsPublic:    f.IsPublic,
		RowCount:    f.RowCount,
		ColumnCount: f.ColumnCount,
		ErrorMsg:    f.ErrorMsg,
		CreatedAt:   f.CreatedAt,
		ProcessedAt: f.ProcessedAt,
		AccessedAt:  f.AccessedAt,
	}
}
