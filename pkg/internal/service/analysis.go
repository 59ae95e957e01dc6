package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/tablevault/pkg/cache"
	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/analysis"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/storage/blob"
	"github.com/yeisme/tablevault/pkg/internal/storage/db"
	"github.com/yeisme/tablevault/pkg/internal/storage/mq"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/log"
	"github.com/yeisme/tablevault/pkg/metrics"
	"github.com/yeisme/tablevault/pkg/queue"
)

// 后台分析并发上限，进程内共享.
var (
	semOnce     sync.Once
	analysisSem chan struct{}
)

func acquireSlot() {
	semOnce.Do(func() {
		n := configs.GetConfig().Analysis.MaxConcurrent
		if n < 1 {
			n = 1
		}

		analysisSem = make(chan struct{}, n)
	})

	analysisSem <- struct{}{}
}

func releaseSlot() {
	<-analysisSem
}

// AnalysisService 驱动文件分析的状态机：
// uploaded → processing → completed|failed.
type AnalysisService struct {
	blobClient *blob.Client
	dbClient   *db.Client
	mqClient   *mq.Client
	cache      *cache.Cache
	cfg        *configs.AppConfig
}

// NewAnalysisService 从 context 组装 AnalysisService.
func NewAnalysisService(c context.Context) *AnalysisService {
	s := &AnalysisService{
		blobClient: ctxPkg.GetBlobClient(c),
		dbClient:   ctxPkg.GetDBClient(c),
		mqClient:   ctxPkg.GetMQClient(c),
		cfg:        configs.GetConfig(),
	}

	if kvClient := ctxPkg.GetKVClient(c); kvClient != nil {
		s.cache = cache.NewCache(kvClient)
	}

	return s
}

// Trigger 受理一次分析请求并在后台执行.
// processing 状态转换是一条条件 UPDATE（状态比较交换），
// 并发触发时恰有一个请求胜出，其余得到 ErrAlreadyProcessing.
// 终态文件允许重新分析，旧的产物在胜出时一并清空.
func (s *AnalysisService) Trigger(ctx context.Context, ownerID, fileID uint) (*itypes.AnalyzeResponse, error) {
	var file model.File

	if err := s.dbClient.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	rerun := file.Status.Terminal()

	res := s.dbClient.DB.WithContext(ctx).Model(&model.File{}).
		Where("id = ? AND status <> ?", fileID, model.StatusProcessing).
		Updates(map[string]any{
			"status":        model.StatusProcessing,
			"metadata_json": "",
			"results_json":  "",
			"error_msg":     "",
			"row_count":     nil,
			"column_count":  nil,
			"processed_at":  nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, ErrAlreadyProcessing
	}

	s.invalidateResultCache(ctx, fileID, file.ProcessedAt)

	if pub := s.mqClient.Publisher(); pub != nil {
		_ = queue.PublishAnalysisRequested(pub, queue.AnalysisRequestedPayload{
			File:  fileRef(&file),
			Rerun: rerun,
		})
	}

	// 触发端点立即返回，引擎在后台运行
	bg := context.WithoutCancel(ctx)

	go s.run(bg, &file)

	return &itypes.AnalyzeResponse{
		FileID:  fileID,
		Status:  string(model.StatusProcessing),
		Message: "analysis started",
	}, nil
}

// run 执行一次分析并落盘终态.
// 任何失败路径（含 panic）都收敛为 failed，绝不把记录留在 processing.
func (s *AnalysisService) run(ctx context.Context, file *model.File) {
	acquireSlot()
	defer releaseSlot()

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Logger().Error().Interface("panic", r).
				Uint("file_id", file.ID).Msg("analysis panicked")
			s.markFailed(ctx, file, fmt.Sprintf("internal error: %v", r), start)
		}
	}()

	kind, err := analysis.ParseKind(file.FileType)
	if err != nil {
		s.markFailed(ctx, file, err.Error(), start)

		return
	}

	rc, err := s.blobClient.Get(ctx, file.StoredName)
	if err != nil {
		s.markFailed(ctx, file, fmt.Sprintf("read stored file: %v", err), start)

		return
	}
	defer rc.Close()

	meta, results, err := analysis.Analyze(rc, kind)
	if err != nil {
		// 引擎错误文本原样入库
		s.markFailed(ctx, file, err.Error(), start)

		return
	}

	if err := s.markCompleted(ctx, file, meta, results, start); err != nil {
		log.Logger().Error().Err(err).Uint("file_id", file.ID).
			Msg("failed to persist analysis results")
		s.markFailed(ctx, file, fmt.Sprintf("persist results: %v", err), start)
	}
}

// markCompleted 在一个事务里写入产物、推进状态并递增分析计数.
func (s *AnalysisService) markCompleted(ctx context.Context, file *model.File,
	meta *itypes.TableMetadata, results *itypes.AnalysisResults, start time.Time,
) error {
	if err := file.SetMetadata(meta); err != nil {
		return err
	}

	if err := file.SetResults(results); err != nil {
		return err
	}

	now := time.Now()
	rowCount := meta.RowCount
	colCount := meta.ColumnCount

	err := s.dbClient.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.File{}).Where("id = ?", file.ID).
			Updates(map[string]any{
				"status":        model.StatusCompleted,
				"metadata_json": file.MetadataJSON,
				"results_json":  file.ResultsJSON,
				"error_msg":     "",
				"row_count":     rowCount,
				"column_count":  colCount,
				"processed_at":  now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).Where("id = ?", file.OwnerID).
			UpdateColumn("analyses_count", gorm.Expr("analyses_count + 1")).Error
	})
	if err != nil {
		return err
	}

	duration := time.Since(start)
	metrics.AnalysisRuns.WithLabelValues(string(model.StatusCompleted)).Inc()
	metrics.AnalysisDuration.Observe(duration.Seconds())

	if pub := s.mqClient.Publisher(); pub != nil {
		_ = queue.PublishAnalysisCompleted(pub, queue.AnalysisCompletedPayload{
			File:        fileRef(file),
			RowCount:    rowCount,
			ColumnCount: colCount,
			DurationMS:  duration.Milliseconds(),
		})
	}

	return nil
}

// markFailed 落盘失败终态，错误文本写入记录.
func (s *AnalysisService) markFailed(ctx context.Context, file *model.File, errMsg string, start time.Time) {
	now := time.Now()

	err := s.dbClient.DB.WithContext(ctx).Model(&model.File{}).Where("id = ?", file.ID).
		Updates(map[string]any{
			"status":       model.StatusFailed,
			"error_msg":    errMsg,
			"processed_at": now,
		}).Error
	if err != nil {
		// 状态可能滞留 processing，由后台巡检任务兜底
		log.Logger().Error().Err(err).Uint("file_id", file.ID).
			Msg("failed to mark analysis as failed")

		return
	}

	metrics.AnalysisRuns.WithLabelValues(string(model.StatusFailed)).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if pub := s.mqClient.Publisher(); pub != nil {
		_ = queue.PublishAnalysisFailed(pub, queue.AnalysisFailedPayload{
			File:  fileRef(file),
			Error: errMsg,
		})
	}
}

// Results 按当前状态裁剪结果响应.
// uploaded 返回 ErrNotYetAnalyzed；completed 的响应按 processed_at 版本走 KV 缓存.
func (s *AnalysisService) Results(ctx context.Context, ownerID, fileID uint) (*itypes.AnalysisStatusResponse, error) {
	var file model.File

	if err := s.dbClient.DB.WithContext(ctx).
		Where("id = ? AND (owner_id = ? OR is_public = ?)", fileID, ownerID, true).
		First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	switch file.Status {
	case model.StatusUploaded:
		return nil, ErrNotYetAnalyzed
	case model.StatusProcessing:
		return &itypes.AnalysisStatusResponse{Status: string(model.StatusProcessing)}, nil
	case model.StatusFailed:
		return &itypes.AnalysisStatusResponse{
			Status: string(model.StatusFailed),
			Error:  file.ErrorMsg,
		}, nil
	}

	if resp, ok := s.cachedResults(ctx, fileID, file.ProcessedAt); ok {
		return resp, nil
	}

	meta, err := file.Metadata()
	if err != nil {
		return nil, err
	}

	results, err := file.Results()
	if err != nil {
		return nil, err
	}

	resp := &itypes.AnalysisStatusResponse{
		Status:      string(model.StatusCompleted),
		Metadata:    meta,
		Results:     results,
		ProcessedAt: file.ProcessedAt,
	}

	s.storeResultCache(ctx, fileID, file.ProcessedAt, resp)

	return resp, nil
}

// resultCacheKey 以 processed_at 的纳秒时间戳为键的版本段.
// 每轮完成的分析有新的 processed_at，旧版本条目不再被任何读命中，
// 并发读写也不会把过期响应重新写回当前键，残留条目由 TTL 回收.
func resultCacheKey(fileID uint, processedAt *time.Time) string {
	version := "0"
	if processedAt != nil {
		version = strconv.FormatInt(processedAt.UnixNano(), 10)
	}

	return cache.Key("analysis:results", strconv.FormatUint(uint64(fileID), 10), version)
}

func (s *AnalysisService) cachedResults(ctx context.Context, fileID uint, processedAt *time.Time) (*itypes.AnalysisStatusResponse, bool) {
	if s.cache == nil || s.cfg.Analysis.ResultCacheTTL <= 0 {
		return nil, false
	}

	resp, err := cache.Get[itypes.AnalysisStatusResponse](ctx, s.cache, resultCacheKey(fileID, processedAt))
	if err != nil {
		return nil, false
	}

	return &resp, true
}

func (s *AnalysisService) storeResultCache(ctx context.Context, fileID uint, processedAt *time.Time, resp *itypes.AnalysisStatusResponse) {
	if s.cache == nil || s.cfg.Analysis.ResultCacheTTL <= 0 {
		return
	}

	_ = cache.Set(ctx, s.cache, resultCacheKey(fileID, processedAt), *resp, s.cfg.Analysis.GetResultCacheTTL())
}

func (s *AnalysisService) invalidateResultCache(ctx context.Context, fileID uint, processedAt *time.Time) {
	if s.cache == nil {
		return
	}

	_ = s.cache.Delete(ctx, resultCacheKey(fileID, processedAt))
}
