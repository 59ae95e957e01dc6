package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// FileRef 标识一条文件记录及其存储位置.
type FileRef struct {
	FileID     uint   `json:"file_id"`
	OwnerID    uint   `json:"owner_id"`
	StoredName string `json:"stored_name"`
	Filename   string `json:"filename,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	Size       int64  `json:"size,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
}

// -------------------------- 文件生命周期领域 --------------------------

// FileStoredPayload 文件字节已写入存储且记录入库.
type FileStoredPayload struct {
	File FileRef `json:"file"`
	// Source 触发来源，如 upload.
	Source string `json:"source,omitempty"`
}

// FileUpdatedPayload 文件元数据被修改.
type FileUpdatedPayload struct {
	File          FileRef  `json:"file"`
	ChangedFields []string `json:"changed_fields,omitempty"`
}

// FileDeletedPayload 文件被软删除.
type FileDeletedPayload struct {
	File FileRef `json:"file"`
	// FreedBytes 从属主存储用量中扣减的字节数.
	FreedBytes int64 `json:"freed_bytes,omitempty"`
}

// FilePurgedPayload 软删除文件被后台硬删除.
type FilePurgedPayload struct {
	File FileRef `json:"file"`
}

// FileAccessedPayload 文件被读取或下载.
type FileAccessedPayload struct {
	File FileRef `json:"file"`
	// Kind 访问类型：read / download.
	Kind string `json:"kind,omitempty"`
}

// -------------------------- 分析管线领域 --------------------------

// AnalysisRequestedPayload 分析任务已受理.
type AnalysisRequestedPayload struct {
	File FileRef `json:"file"`
	// Rerun 是否为对终态文件的再次分析.
	Rerun bool `json:"rerun,omitempty"`
}

// AnalysisCompletedPayload 分析成功.
type AnalysisCompletedPayload struct {
	File        FileRef `json:"file"`
	RowCount    int64   `json:"row_count"`
	ColumnCount int     `json:"column_count"`
	DurationMS  int64   `json:"duration_ms,omitempty"`
}

// AnalysisFailedPayload 分析失败.
type AnalysisFailedPayload struct {
	File  FileRef `json:"file"`
	Error string  `json:"error"`
}

// -------------------------- 账户领域 --------------------------

// UserRegisteredPayload 新用户注册完成.
type UserRegisteredPayload struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// -------------------------- 容量领域 --------------------------

// StorageQuotaExceededPayload 上传因配额不足被拒绝.
type StorageQuotaExceededPayload struct {
	OwnerID     uint  `json:"owner_id"`
	Requested   int64 `json:"requested"`
	StorageUsed int64 `json:"storage_used"`
	Quota       int64 `json:"quota"`
}
