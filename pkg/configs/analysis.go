package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAnalysisMaxConcurrent   = 4    // 同时运行的分析任务上限
	DefaultAnalysisStuckAfter      = 30   // processing 状态超过该分钟数视为卡死
	DefaultAnalysisPurgeAfterDays  = 30   // 软删除文件保留天数
	DefaultAnalysisResultCacheTTL  = 10   // 结果缓存有效期（分钟）
	DefaultAnalysisJobsCron        = "*/10 * * * *" // 后台巡检任务的 cron 表达式
)

// AnalysisConfig 分析管线配置.
type AnalysisConfig struct {
	MaxConcurrent  int    `mapstructure:"max_concurrent"   rule:"min=1,max=256"`
	StuckAfter     int    `mapstructure:"stuck_after"      rule:"min=1"` // 分钟
	PurgeAfterDays int    `mapstructure:"purge_after_days" rule:"min=1"`
	ResultCacheTTL int    `mapstructure:"result_cache_ttl" rule:"min=0"` // 分钟，0 禁用缓存
	JobsCron       string `mapstructure:"jobs_cron"`
}

// GetStuckAfter 返回卡死判定阈值.
func (c *AnalysisConfig) GetStuckAfter() time.Duration {
	return time.Duration(c.StuckAfter) * time.Minute
}

// GetResultCacheTTL 返回结果缓存有效期.
func (c *AnalysisConfig) GetResultCacheTTL() time.Duration {
	return time.Duration(c.ResultCacheTTL) * time.Minute
}

func (c *AnalysisConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.max_concurrent", DefaultAnalysisMaxConcurrent)
	v.SetDefault("analysis.stuck_after", DefaultAnalysisStuckAfter)
	v.SetDefault("analysis.purge_after_days", DefaultAnalysisPurgeAfterDays)
	v.SetDefault("analysis.result_cache_ttl", DefaultAnalysisResultCacheTTL)
	v.SetDefault("analysis.jobs_cron", DefaultAnalysisJobsCron)
}
