// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：tv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：file(文件生命周期)、analysis(分析管线)、user(账户)、storage(容量)
// 动作/状态：stored/deleted/accessed、requested/completed/failed 等

const (
	// 文件生命周期领域.
	TopicFileStored   = "tv.file.stored"   // 文件字节已写入存储且记录入库
	TopicFileUpdated  = "tv.file.updated"  // 文件元数据被修改（重命名、可见性）
	TopicFileDeleted  = "tv.file.deleted"  // 文件被软删除
	TopicFilePurged   = "tv.file.purged"   // 软删除文件被后台硬删除
	TopicFileAccessed = "tv.file.accessed" // 文件被读取或下载（用于热点统计）

	// 分析管线领域.
	TopicAnalysisRequested = "tv.analysis.requested" // 分析任务已受理并进入 processing
	TopicAnalysisCompleted = "tv.analysis.completed" // 分析成功，结果已持久化
	TopicAnalysisFailed    = "tv.analysis.failed"    // 分析失败，错误已记录

	// 账户领域.
	TopicUserRegistered = "tv.user.registered" // 新用户注册完成

	// 容量领域.
	TopicStorageQuotaExceeded = "tv.storage.quota.exceeded" // 上传因配额不足被拒绝
)

// 主题分组，用于批量操作或权限控制.
var (
	// 文件生命周期相关主题集合.
	FileTopics = []string{
		TopicFileStored, TopicFileUpdated, TopicFileDeleted,
		TopicFilePurged, TopicFileAccessed,
	}

	// 分析管线相关主题集合.
	AnalysisTopics = []string{
		TopicAnalysisRequested, TopicAnalysisCompleted, TopicAnalysisFailed,
	}
)
