package service

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/storage/db"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// StatsService 提供用户维度的用量与文件统计.
type StatsService struct {
	dbClient *db.Client
	cfg      *configs.AppConfig
}

// NewStatsService 从 context 组装 StatsService.
func NewStatsService(c context.Context) *StatsService {
	return &StatsService{
		dbClient: ctxPkg.GetDBClient(c),
		cfg:      configs.GetConfig(),
	}
}

// sizeBuckets 文件大小分桶边界.
var sizeBuckets = []struct {
	name string
	min  int64
	max  int64
}{
	{"tiny", 0, 100 * 1024},
	{"small", 100 * 1024, 1024 * 1024},
	{"medium", 1024 * 1024, 5 * 1024 * 1024},
	{"large", 5 * 1024 * 1024, math.MaxInt64},
}

// Usage 返回计数器与配额占用.
func (s *StatsService) Usage(ctx context.Context, userID uint) (*itypes.UsageStats, error) {
	var user model.User
	if err := s.dbClient.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	quota := s.cfg.Upload.StorageQuota

	var pct float64
	if quota > 0 {
		pct = math.Round(float64(user.StorageUsed)/float64(quota)*10000) / 100
	}

	return &itypes.UsageStats{
		FileUploadsCount: user.FileUploadsCount,
		AnalysesCount:    user.AnalysesCount,
		StorageUsed:      user.StorageUsed,
		StorageQuota:     quota,
		StorageUsedPct:   pct,
	}, nil
}

// statusAgg 分组聚合行.
type statusAgg struct {
	Label string
	Count int
	Size  int64
}

// Files 返回按状态、类型与大小分桶的聚合，各维度查询并行执行.
func (s *StatsService) Files(ctx context.Context, userID uint) (*itypes.FileStats, error) {
	var (
		totals   statusAgg
		byStatus []statusAgg
		byType   []statusAgg
		buckets  = make([]statusAgg, len(sizeBuckets))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.dbClient.DB.WithContext(gctx).Model(&model.File{}).
			Where("owner_id = ?", userID).
			Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS size").
			Scan(&totals).Error
	})

	g.Go(func() error {
		return s.dbClient.DB.WithContext(gctx).Model(&model.File{}).
			Where("owner_id = ?", userID).
			Select("status AS label, COUNT(*) AS count, COALESCE(SUM(size), 0) AS size").
			Group("status").Order("status").
			Scan(&byStatus).Error
	})

	g.Go(func() error {
		return s.dbClient.DB.WithContext(gctx).Model(&model.File{}).
			Where("owner_id = ?", userID).
			Select("file_type AS label, COUNT(*) AS count, COALESCE(SUM(size), 0) AS size").
			Group("file_type").Order("file_type").
			Scan(&byType).Error
	})

	for i, b := range sizeBuckets {
		g.Go(func() error {
			return s.dbClient.DB.WithContext(gctx).Model(&model.File{}).
				Where("owner_id = ? AND size >= ? AND size < ?", userID, b.min, b.max).
				Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS size").
				Scan(&buckets[i]).Error
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &itypes.FileStats{
		TotalFiles:  totals.Count,
		TotalSize:   totals.Size,
		ByStatus:    make([]itypes.StatsStatusItem, 0, len(byStatus)),
		ByType:      make([]itypes.StatsTypeItem, 0, len(byType)),
		SizeBuckets: make([]itypes.StatsSizeBucket, 0, len(sizeBuckets)),
	}

	for _, row := range byStatus {
		stats.ByStatus = append(stats.ByStatus, itypes.StatsStatusItem{
			Status: row.Label, Count: row.Count, Size: row.Size,
		})
	}

	for _, row := range byType {
		stats.ByType = append(stats.ByType, itypes.StatsTypeItem{
			Type: row.Label, Count: row.Count, Size: row.Size,
		})
	}

	for i, b := range sizeBuckets {
		stats.SizeBuckets = append(stats.SizeBuckets, itypes.StatsSizeBucket{
			Name: b.name, Min: b.min, Max: b.max, Count: buckets[i].Count, Size: buckets[i].Size,
		})
	}

	return stats, nil
}

// Trend 返回最近 days 天的按日上传趋势，缺数据的日期补零.
func (s *StatsService) Trend(ctx context.Context, userID uint, days int) (*itypes.FileTrend, error) {
	if days < 1 {
		days = 7
	}

	if days > 90 {
		days = 90
	}

	since := time.Now().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)

	var files []model.File
	if err := s.dbClient.DB.WithContext(ctx).
		Where("owner_id = ? AND created_at >= ?", userID, since).
		Select("created_at, size").
		Find(&files).Error; err != nil {
		return nil, err
	}

	// 按日在内存聚合，避免各 SQL 方言日期函数差异
	byDay := make(map[string]*itypes.StatsTrendPoint, days)

	for _, f := range files {
		day := f.CreatedAt.Format("2006-01-02")
		if p, ok := byDay[day]; ok {
			p.Count++
			p.Size += f.Size
		} else {
			byDay[day] = &itypes.StatsTrendPoint{Date: day, Count: 1, Size: f.Size}
		}
	}

	trend := &itypes.FileTrend{Days: days, Points: make([]itypes.StatsTrendPoint, 0, days)}

	for i := range days {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		if p, ok := byDay[day]; ok {
			trend.Points = append(trend.Points, *p)
		} else {
			trend.Points = append(trend.Points, itypes.StatsTrendPoint{Date: day})
		}
	}

	return trend, nil
}
