package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeisme/tablevault/pkg/internal/model"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/log"
	"github.com/yeisme/tablevault/pkg/metrics"
	"github.com/yeisme/tablevault/pkg/queue"
)

// Upload 接收上传：校验扩展名/大小/配额，写入对象存储并创建记录.
// 字节先落存储，配额检查与计数器更新在同一条条件 UPDATE 中完成；
// 配额不足时保留孤儿对象（尽力删除），绝不留下指向缺失字节的记录.
func (fs *FileService) Upload(ctx context.Context, ownerID uint,
	filename string, reader io.Reader, size int64, mimeType string,
) (*itypes.UploadResponse, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !fs.cfg.Upload.ExtensionAllowed(ext) {
		return nil, ErrExtensionNotAllowed
	}

	if size <= 0 {
		return nil, ErrEmptyFile
	}

	if size > fs.cfg.Upload.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	storedName := uuid.NewString() + "." + ext

	if err := fs.blobClient.Put(ctx, storedName, reader, size, mimeType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	file := model.File{
		OwnerID:    ownerID,
		StoredName: storedName,
		Filename:   filename,
		FileType:   ext,
		MimeType:   mimeType,
		Size:       size,
		Status:     model.StatusUploaded,
	}

	err := fs.dbClient.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 配额检查 + 计数器更新是一条原子条件 UPDATE，并发上传不会超卖
		res := tx.Model(&model.User{}).
			Where("id = ? AND storage_used + ? <= ?", ownerID, size, fs.cfg.Upload.StorageQuota).
			Updates(map[string]any{
				"storage_used":       gorm.Expr("storage_used + ?", size),
				"file_uploads_count": gorm.Expr("file_uploads_count + 1"),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrQuotaExceeded
		}

		return tx.Create(&file).Error
	})
	if err != nil {
		// 孤儿对象可接受，指向缺失字节的记录不可接受
		if delErr := fs.blobClient.Delete(ctx, storedName); delErr != nil {
			log.Logger().Warn().Err(delErr).Str("stored_name", storedName).
				Msg("failed to clean up orphaned blob after rejected upload")
		}

		fs.notifyQuotaExceeded(ctx, ownerID, size, err)

		return nil, err
	}

	metrics.UploadBytes.WithLabelValues(ext).Add(float64(size))

	if pub := fs.mqClient.Publisher(); pub != nil {
		_ = queue.PublishFileStored(pub, queue.FileStoredPayload{
			File:   fileRef(&file),
			Source: "upload",
		})
	}

	return &itypes.UploadResponse{
		ID:       file.ID,
		Filename: file.Filename,
		FileType: file.FileType,
		Size:     file.Size,
		Status:   string(file.Status),
	}, nil
}

// notifyQuotaExceeded 在配额拒绝时发布容量事件.
func (fs *FileService) notifyQuotaExceeded(ctx context.Context, ownerID uint, size int64, cause error) {
	if !errors.Is(cause, ErrQuotaExceeded) {
		return
	}

	pub := fs.mqClient.Publisher()
	if pub == nil {
		return
	}

	var user model.User
	if err := fs.dbClient.DB.WithContext(ctx).First(&user, ownerID).Error; err != nil {
		return
	}

	_ = queue.PublishStorageQuotaExceeded(pub, queue.StorageQuotaExceededPayload{
		OwnerID:     ownerID,
		Requested:   size,
		StorageUsed: user.StorageUsed,
		Quota:       fs.cfg.Upload.StorageQuota,
	})
}

// fileRef 构造事件负载中的文件引用.
func fileRef(f *model.File) queue.FileRef {
	return queue.FileRef{
		FileID:     f.ID,
		OwnerID:    f.OwnerID,
		StoredName: f.StoredName,
		Filename:   f.Filename,
		FileType:   f.FileType,
		Size:       f.Size,
		MimeType:   f.MimeType,
	}
}
