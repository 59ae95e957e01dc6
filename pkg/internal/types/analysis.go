package types

import "time"

// TableMetadata 表格文件的结构元数据.
type TableMetadata struct {
	Columns     []string          `json:"columns"`
	RowCount    int64             `json:"row_count"`
	ColumnCount int               `json:"column_count"`
	Dtypes      map[string]string `json:"dtypes"`
	// MemoryUsage 数据载入内存后的估算字节数.
	MemoryUsage int64 `json:"memory_usage"`
}

// NumericSummary 数值列的描述统计.
// 列内全部缺失时各字段为 null，但对象本身仍然存在.
type NumericSummary struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Q25    *float64 `json:"q25"`
	Q75    *float64 `json:"q75"`
}

// AnalysisResults 每列统计结果.
// SummaryStatistics 仅包含数值列；键集合由列的推断类型决定.
type AnalysisResults struct {
	SummaryStatistics map[string]NumericSummary `json:"summary_statistics"`
	MissingValues     map[string]int64          `json:"missing_values"`
	UniqueValues      map[string]int64          `json:"unique_values"`
	DataTypes         map[string]string         `json:"data_types"`
}

// AnalyzeResponse 分析触发响应.
type AnalyzeResponse struct {
	FileID  uint   `json:"file_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AnalysisStatusResponse 结果查询响应.
// 字段按状态裁剪：processing 仅 status；failed 附 error；
// completed 附 metadata、results 与 processed_at.
type AnalysisStatusResponse struct {
	Status      string           `json:"status"`
	Error       string           `json:"error,omitempty"`
	Metadata    *TableMetadata   `json:"metadata,omitempty"`
	Results     *AnalysisResults `json:"results,omitempty"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}
