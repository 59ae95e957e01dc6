package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/service"
)

// seedFile 直接插入文件记录，绕过上传校验.
func seedFile(t *testing.T, ctx context.Context, ownerID uint, name, fileType string, size int64, status model.FileStatus) {
	t.Helper()

	file := model.File{
		OwnerID:    ownerID,
		StoredName: name,
		Filename:   name,
		FileType:   fileType,
		Size:       size,
		Status:     status,
	}

	if err := ctxPkg.GetDBClient(ctx).DB.Create(&file).Error; err != nil {
		t.Fatalf("seed file %s: %v", name, err)
	}
}

func TestUsageStats(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "usage")
	svc := service.NewStatsService(ctx)

	configs.GetConfig().Upload.StorageQuota = 1000

	if err := ctxPkg.GetDBClient(ctx).DB.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]any{
			"storage_used":       int64(125),
			"file_uploads_count": int64(3),
			"analyses_count":     int64(2),
		}).Error; err != nil {
		t.Fatalf("seed counters: %v", err)
	}

	usage, err := svc.Usage(ctx, user.ID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if usage.FileUploadsCount != 3 || usage.AnalysesCount != 2 || usage.StorageUsed != 125 {
		t.Fatalf("unexpected usage: %+v", usage)
	}

	if usage.StorageQuota != 1000 || usage.StorageUsedPct != 12.5 {
		t.Fatalf("quota %d pct %v, want 1000 / 12.5", usage.StorageQuota, usage.StorageUsedPct)
	}
}

func TestFileStatsAggregation(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "agg")
	other := createTestUser(t, ctx, "aggother")
	svc := service.NewStatsService(ctx)

	seedFile(t, ctx, user.ID, "a.csv", "csv", 10, model.StatusUploaded)
	seedFile(t, ctx, user.ID, "b.csv", "csv", 200*1024, model.StatusCompleted)
	seedFile(t, ctx, user.ID, "c.json", "json", 2*1024*1024, model.StatusFailed)
	seedFile(t, ctx, other.ID, "d.csv", "csv", 999, model.StatusUploaded)

	stats, err := svc.Files(ctx, user.ID)
	if err != nil {
		t.Fatalf("files: %v", err)
	}

	if stats.TotalFiles != 3 {
		t.Fatalf("total_files = %d, want 3 (own files only)", stats.TotalFiles)
	}

	wantSize := int64(10 + 200*1024 + 2*1024*1024)
	if stats.TotalSize != wantSize {
		t.Fatalf("total_size = %d, want %d", stats.TotalSize, wantSize)
	}

	byType := map[string]int{}
	for _, item := range stats.ByType {
		byType[item.Type] = item.Count
	}

	if byType["csv"] != 2 || byType["json"] != 1 {
		t.Fatalf("by_type = %v", stats.ByType)
	}

	byStatus := map[string]int{}
	for _, item := range stats.ByStatus {
		byStatus[item.Status] = item.Count
	}

	if byStatus["uploaded"] != 1 || byStatus["completed"] != 1 || byStatus["failed"] != 1 {
		t.Fatalf("by_status = %v", stats.ByStatus)
	}

	buckets := map[string]int{}
	for _, b := range stats.SizeBuckets {
		buckets[b.Name] = b.Count
	}

	// 10B → tiny，200KB → small，2MB → medium
	if buckets["tiny"] != 1 || buckets["small"] != 1 || buckets["medium"] != 1 || buckets["large"] != 0 {
		t.Fatalf("size_buckets = %v", stats.SizeBuckets)
	}
}

func TestTrendZeroFills(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "trend")
	svc := service.NewStatsService(ctx)

	seedFile(t, ctx, user.ID, "today.csv", "csv", 7, model.StatusUploaded)

	trend, err := svc.Trend(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if trend.Days != 3 || len(trend.Points) != 3 {
		t.Fatalf("trend shape: days=%d points=%d, want 3/3", trend.Days, len(trend.Points))
	}

	today := time.Now().Format("2006-01-02")
	last := trend.Points[len(trend.Points)-1]

	if last.Date != today || last.Count != 1 || last.Size != 7 {
		t.Fatalf("today's point = %+v, want {%s 1 7}", last, today)
	}

	for _, p := range trend.Points[:len(trend.Points)-1] {
		if p.Count != 0 || p.Size != 0 {
			t.Fatalf("expected zero-filled point, got %+v", p)
		}
	}

	// 越界天数钳制
	clamped, err := svc.Trend(ctx, user.ID, 500)
	if err != nil {
		t.Fatalf("trend clamped: %v", err)
	}

	if clamped.Days != 90 {
		t.Fatalf("days = %d, want clamped 90", clamped.Days)
	}

	defaulted, err := svc.Trend(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("trend default: %v", err)
	}

	if defaulted.Days != 7 {
		t.Fatalf("days = %d, want default 7", defaulted.Days)
	}
}
