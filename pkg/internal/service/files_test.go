package service_test

import (
	"errors"
	"io"
	"testing"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/service"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

func TestUploadValidation(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "uploader")
	svc := service.NewFileService(ctx)

	cases := []struct {
		name     string
		filename string
		content  string
		want     error
	}{
		{"extension not allowed", "data.exe", "abc", service.ErrExtensionNotAllowed},
		{"no extension", "data", "abc", service.ErrExtensionNotAllowed},
		{"empty file", "data.csv", "", service.ErrEmptyFile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, user.ID, tc.filename,
				readerOf(tc.content), int64(len(tc.content)), "text/plain")
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	configs.GetConfig().Upload.MaxFileSize = 4

	if _, err := svc.Upload(ctx, user.ID, "big.csv", readerOf("12345"), 5, "text/csv"); !errors.Is(err, service.ErrFileTooLarge) {
		t.Fatalf("oversized upload: got %v, want ErrFileTooLarge", err)
	}
}

func TestUploadUpdatesCounters(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "counter")

	content := "a,b\n1,2\n"
	resp := uploadFile(t, ctx, user.ID, "data.csv", content)

	if resp.Status != string(model.StatusUploaded) {
		t.Fatalf("new upload status %q, want uploaded", resp.Status)
	}

	after := reloadUser(t, ctx, user.ID)
	if after.FileUploadsCount != 1 {
		t.Fatalf("file_uploads_count = %d, want 1", after.FileUploadsCount)
	}

	if after.StorageUsed != int64(len(content)) {
		t.Fatalf("storage_used = %d, want %d", after.StorageUsed, len(content))
	}
}

func TestUploadQuotaEnforced(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "quota")

	configs.GetConfig().Upload.StorageQuota = 10

	uploadFile(t, ctx, user.ID, "first.csv", "123456")

	// 剩余 4 字节，6 字节的上传必须被拒绝
	_, err := service.NewFileService(ctx).Upload(ctx, user.ID, "second.csv",
		readerOf("abcdef"), 6, "text/csv")
	if !errors.Is(err, service.ErrQuotaExceeded) {
		t.Fatalf("over-quota upload: got %v, want ErrQuotaExceeded", err)
	}

	// 拒绝的上传不改变计数器
	after := reloadUser(t, ctx, user.ID)
	if after.StorageUsed != 6 || after.FileUploadsCount != 1 {
		t.Fatalf("counters changed by rejected upload: used=%d uploads=%d", after.StorageUsed, after.FileUploadsCount)
	}

	// 刚好填满配额的上传仍然允许
	if _, err := service.NewFileService(ctx).Upload(ctx, user.ID, "third.csv",
		readerOf("abcd"), 4, "text/csv"); err != nil {
		t.Fatalf("exact-fit upload: %v", err)
	}
}

func TestListFilters(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "lister")
	other := createTestUser(t, ctx, "other")
	svc := service.NewFileService(ctx)

	uploadFile(t, ctx, user.ID, "a.csv", "a,b\n1,2\n")
	uploadFile(t, ctx, user.ID, "b.json", `[{"x":1}]`)
	uploadFile(t, ctx, other.ID, "c.csv", "a\n1\n")

	all, err := svc.List(ctx, user.ID, &itypes.FileListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if all.Total != 2 {
		t.Fatalf("total = %d, want 2 (own files only)", all.Total)
	}

	// 最新在前
	if all.Files[0].Filename != "b.json" {
		t.Fatalf("first file %q, want b.json", all.Files[0].Filename)
	}

	csvOnly, err := svc.List(ctx, user.ID, &itypes.FileListRequest{FileType: "csv"})
	if err != nil {
		t.Fatalf("list csv: %v", err)
	}

	if csvOnly.Total != 1 || csvOnly.Files[0].Filename != "a.csv" {
		t.Fatalf("csv filter returned %+v", csvOnly)
	}

	none, err := svc.List(ctx, user.ID, &itypes.FileListRequest{Status: string(model.StatusCompleted)})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}

	if none.Total != 0 {
		t.Fatalf("completed filter total = %d, want 0", none.Total)
	}
}

func TestUpdateAndOwnership(t *testing.T) {
	ctx := newTestContext(t)
	owner := createTestUser(t, ctx, "owner")
	stranger := createTestUser(t, ctx, "stranger")
	svc := service.NewFileService(ctx)

	up := uploadFile(t, ctx, owner.ID, "orig.csv", "a\n1\n")

	// 非属主不可见
	if _, err := svc.Get(ctx, stranger.ID, up.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("stranger get: got %v, want ErrNotFound", err)
	}

	newName := "renamed.csv"
	isPublic := true

	updated, err := svc.Update(ctx, owner.ID, up.ID, &itypes.FileUpdateRequest{
		Filename: &newName,
		IsPublic: &isPublic,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Filename != newName || !updated.IsPublic {
		t.Fatalf("update not applied: %+v", updated)
	}

	// 公开后非属主可读，但仍不可改
	if _, err := svc.Get(ctx, stranger.ID, up.ID); err != nil {
		t.Fatalf("stranger get public: %v", err)
	}

	if _, err := svc.Update(ctx, stranger.ID, up.ID, &itypes.FileUpdateRequest{Filename: &newName}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("stranger update: got %v, want ErrNotFound", err)
	}

	if err := svc.SoftDelete(ctx, stranger.ID, up.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("stranger delete: got %v, want ErrNotFound", err)
	}
}

func TestSoftDeleteReturnsQuota(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "deleter")
	svc := service.NewFileService(ctx)

	content := "a,b\n1,2\n"
	up := uploadFile(t, ctx, user.ID, "gone.csv", content)

	if err := svc.SoftDelete(ctx, user.ID, up.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := reloadUser(t, ctx, user.ID).StorageUsed; got != 0 {
		t.Fatalf("storage_used = %d after delete, want 0", got)
	}

	// 删除后不可见，重复删除也报 NotFound
	if _, err := svc.Get(ctx, user.ID, up.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("get deleted: got %v, want ErrNotFound", err)
	}

	if err := svc.SoftDelete(ctx, user.ID, up.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}

	// 记录仍在（软删除），由后台任务延迟清理
	var count int64
	if err := ctxPkg.GetDBClient(ctx).DB.Unscoped().Model(&model.File{}).
		Where("id = ?", up.ID).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("soft-deleted record missing: count=%d err=%v", count, err)
	}
}

func TestStorageUsedClampedAtZero(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "clamp")
	svc := service.NewFileService(ctx)

	up := uploadFile(t, ctx, user.ID, "x.csv", "a\n1\n")

	// 人为把用量压到文件大小以下，删除后只能钳到 0
	if err := ctxPkg.GetDBClient(ctx).DB.Model(&model.User{}).Where("id = ?", user.ID).
		UpdateColumn("storage_used", int64(1)).Error; err != nil {
		t.Fatalf("shrink storage_used: %v", err)
	}

	if err := svc.SoftDelete(ctx, user.ID, up.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := reloadUser(t, ctx, user.ID).StorageUsed; got != 0 {
		t.Fatalf("storage_used = %d, want clamped 0", got)
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	user := createTestUser(t, ctx, "downloader")
	svc := service.NewFileService(ctx)

	content := "a,b\n1,2\n"
	up := uploadFile(t, ctx, user.ID, "dl.csv", content)

	file, rc, err := svc.Download(ctx, user.ID, up.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}

	if string(got) != content {
		t.Fatalf("downloaded %q, want %q", got, content)
	}

	if file.Filename != "dl.csv" {
		t.Fatalf("downloaded file record %+v", file)
	}

	var after model.File
	if err := ctxPkg.GetDBClient(ctx).DB.First(&after, up.ID).Error; err != nil {
		t.Fatalf("reload file: %v", err)
	}

	if after.AccessedAt == nil {
		t.Fatal("accessed_at not set by download")
	}
}
