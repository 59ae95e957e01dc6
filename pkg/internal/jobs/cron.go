// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/storage"
	"github.com/yeisme/tablevault/pkg/log"
	"github.com/yeisme/tablevault/pkg/queue"
	"github.com/yeisme/tablevault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按 analysis.jobs_cron（默认每 10 分钟）把滞留 processing 的分析置为 failed
//   - 每天 03:30 硬删除超过保留期的软删除文件及其存储对象
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	cfg := configs.GetConfig()

	// 将 storage manager 注入到 context，便于任务内访问存储
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	_ = sched.AddCron(JobFailStuckAnalyses, cfg.Analysis.JobsCron, func(ctx context.Context) {
		runFailStuckAnalyses(ctx, mgr)
	}, baseCtx)

	_ = sched.AddCron(JobPurgeDeletedFiles, CronPurgeDeletedFiles, func(ctx context.Context) {
		runPurgeDeletedFiles(ctx, mgr)
	}, baseCtx)

	return nil
}

// runFailStuckAnalyses 兜底进程崩溃等场景：
// 把 processing 超时的记录统一置为 failed，让客户端可以重新触发.
func runFailStuckAnalyses(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobFailStuckAnalyses).Logger()

	dbClient := mgr.GetDBClient()
	if dbClient == nil {
		l.Error().Msg("db not initialized")

		return
	}

	cutoff := time.Now().Add(-configs.GetConfig().Analysis.GetStuckAfter())

	res := dbClient.DB.WithContext(ctx).Model(&model.File{}).
		Where("status = ? AND updated_at < ?", model.StatusProcessing, cutoff).
		Updates(map[string]any{
			"status":       model.StatusFailed,
			"error_msg":    "analysis timed out",
			"processed_at": time.Now(),
		})
	if res.Error != nil {
		l.Error().Err(res.Error).Msg("fail stuck analyses failed")

		return
	}

	if res.RowsAffected > 0 {
		l.Warn().Int64("affected", res.RowsAffected).Time("cutoff", cutoff).
			Msg("marked stuck analyses as failed")
	}
}

// runPurgeDeletedFiles 硬删除超过保留期的软删除文件.
// 先删对象再删记录；对象删除失败时保留记录，下一轮重试.
func runPurgeDeletedFiles(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobPurgeDeletedFiles).Logger()

	dbClient := mgr.GetDBClient()
	blobClient := mgr.GetBlobClient()

	if dbClient == nil || blobClient == nil {
		l.Error().Msg("storage not initialized")

		return
	}

	cutoff := time.Now().AddDate(0, 0, -configs.GetConfig().Analysis.PurgeAfterDays)

	var files []model.File
	if err := dbClient.DB.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&files).Error; err != nil {
		l.Error().Err(err).Msg("list purgeable files failed")

		return
	}

	purged := 0

	for i := range files {
		f := &files[i]

		if err := blobClient.Delete(ctx, f.StoredName); err != nil {
			l.Error().Err(err).Uint("file_id", f.ID).Str("stored_name", f.StoredName).
				Msg("delete blob failed, record kept for retry")

			continue
		}

		if err := dbClient.DB.WithContext(ctx).Unscoped().Delete(f).Error; err != nil {
			l.Error().Err(err).Uint("file_id", f.ID).Msg("hard delete record failed")

			continue
		}

		if pub := mgr.GetMQClient().Publisher(); pub != nil {
			_ = queue.PublishFilePurged(pub, queue.FilePurgedPayload{
				File: queue.FileRef{
					FileID:     f.ID,
					OwnerID:    f.OwnerID,
					StoredName: f.StoredName,
					Size:       f.Size,
				},
			})
		}

		purged++
	}

	if purged > 0 {
		l.Info().Int("purged", purged).Time("cutoff", cutoff).Msg("purged soft-deleted files")
	}
}
