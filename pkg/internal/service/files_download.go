package service

import (
	"context"
	"io"
	"time"

	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/queue"
)

// Download 打开文件内容流并更新访问时间.
// 记录存在但对象缺失时同样返回 ErrNotFound，不向调用者暴露存储细节.
func (fs *FileService) Download(ctx context.Context, ownerID, fileID uint) (*model.File, io.ReadCloser, error) {
	file, err := fs.findOwned(ctx, ownerID, fileID, true)
	if err != nil {
		return nil, nil, err
	}

	rc, err := fs.blobClient.Get(ctx, file.StoredName)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	now := time.Now()
	_ = fs.dbClient.DB.WithContext(ctx).Model(file).
		UpdateColumn("accessed_at", now).Error

	if pub := fs.mqClient.Publisher(); pub != nil {
		_ = queue.PublishFileAccessed(pub, queue.FileAccessedPayload{
			File: fileRef(file),
			Kind: "download",
		})
	}

	return file, rc, nil
}
