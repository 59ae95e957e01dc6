package service_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/service"
	"github.com/yeisme/tablevault/pkg/internal/storage"
	"github.com/yeisme/tablevault/pkg/internal/storage/blob"
	"github.com/yeisme/tablevault/pkg/internal/storage/db"
	"github.com/yeisme/tablevault/pkg/internal/storage/kv"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// newTestContext 构造服务层测试环境：
// 嵌入式 SQLite + 本地目录 Blob + 内存 KV，挂到 context 供服务构造函数取用.
func newTestContext(t *testing.T) context.Context {
	t.Helper()

	// 空目录，只加载默认配置
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	configs.GetConfig().Auth.JWTSecret = "test-secret"

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tablevault.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewStore(context.Background(), configs.BlobBackendLocal,
		&configs.BlobConfig{LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("create blob store: %v", err)
	}

	kvStore, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create kv store: %v", err)
	}

	mgr := &storage.Manager{
		DB:   &db.Client{DB: gdb},
		Blob: &blob.Client{Store: store},
		KV:   &kv.Client{KVStore: kvStore},
	}

	t.Cleanup(func() { _ = mgr.Close() })

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

func readerOf(s string) *strings.Reader {
	return strings.NewReader(s)
}

// createTestUser 直接插入一个激活用户.
func createTestUser(t *testing.T, ctx context.Context, name string) *model.User {
	t.Helper()

	user := model.User{
		Email:    name + "@example.com",
		Username: name,
		IsActive: true,
	}

	if err := ctxPkg.GetDBClient(ctx).DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}

	return &user
}

// uploadFile 通过 FileService 上传一段内容.
func uploadFile(t *testing.T, ctx context.Context, ownerID uint, filename, content string) *itypes.UploadResponse {
	t.Helper()

	resp, err := service.NewFileService(ctx).Upload(ctx, ownerID,
		filename, strings.NewReader(content), int64(len(content)), "application/octet-stream")
	if err != nil {
		t.Fatalf("upload %s: %v", filename, err)
	}

	return resp
}

// reloadUser 重新读取用户记录.
func reloadUser(t *testing.T, ctx context.Context, id uint) *model.User {
	t.Helper()

	var user model.User
	if err := ctxPkg.GetDBClient(ctx).DB.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}

	return &user
}

// waitForStatus 轮询等待文件到达指定状态，到达其他终态时立即失败.
func waitForStatus(t *testing.T, ctx context.Context, fileID uint, want model.FileStatus) *model.File {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		var file model.File
		if err := ctxPkg.GetDBClient(ctx).DB.First(&file, fileID).Error; err != nil {
			t.Fatalf("load file %d: %v", fileID, err)
		}

		if file.Status == want {
			return &file
		}

		if file.Status.Terminal() {
			t.Fatalf("file %d settled at %s (error %q), want %s", fileID, file.Status, file.ErrorMsg, want)
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for file %d to become %s", fileID, want)

	return nil
}
