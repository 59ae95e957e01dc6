package types

// UsageStats 当前用户的用量统计.
type UsageStats struct {
	FileUploadsCount int64 `json:"file_uploads_count"`
	AnalysesCount    int64 `json:"analyses_count"`
	StorageUsed      int64 `json:"storage_used"`
	StorageQuota     int64 `json:"storage_quota"`
	// StorageUsedPct 已用配额百分比，保留两位.
	StorageUsedPct float64 `json:"storage_used_pct"`
}

// StatsStatusItem 按分析状态聚合.
type StatsStatusItem struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Size   int64  `json:"size"`
}

// StatsTypeItem 按声明类型聚合.
type StatsTypeItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// StatsSizeBucket 单个大小分桶.
type StatsSizeBucket struct {
	Name  string `json:"name"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// StatsTrendPoint 趋势点（按日）.
type StatsTrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// FileStats 文件维度统计响应.
type FileStats struct {
	TotalFiles  int               `json:"total_files"`
	TotalSize   int64             `json:"total_size"`
	ByStatus    []StatsStatusItem `json:"by_status"`
	ByType      []StatsTypeItem   `json:"by_type"`
	SizeBuckets []StatsSizeBucket `json:"size_buckets"`
}

// FileTrend 按日趋势响应.
type FileTrend struct {
	Days   int               `json:"days"`
	Points []StatsTrendPoint `json:"points"`
}
