package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobFailStuckAnalyses = "analysis.fail_stuck"
	JobPurgeDeletedFiles = "files.purge_deleted"
)

// Cron 表达式常量（巡检任务的表达式来自配置，清理任务固定凌晨执行）.
const (
	CronPurgeDeletedFiles = "30 3 * * *"
)
