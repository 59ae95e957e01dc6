package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yeisme/tablevault/pkg/configs"
	ctxPkg "github.com/yeisme/tablevault/pkg/context"
	"github.com/yeisme/tablevault/pkg/internal/model"
	"github.com/yeisme/tablevault/pkg/internal/storage/blob"
	"github.com/yeisme/tablevault/pkg/internal/storage/db"
	"github.com/yeisme/tablevault/pkg/internal/storage/mq"
)

// FileService 负责文件上传、查询、更新与删除.
type FileService struct {
	blobClient *blob.Client
	dbClient   *db.Client
	mqClient   *mq.Client
	cfg        *configs.AppConfig
}

// NewFileService 从 context 组装 FileService.
func NewFileService(c context.Context) *FileService {
	return &FileService{
		blobClient: ctxPkg.GetBlobClient(c),
		dbClient:   ctxPkg.GetDBClient(c),
		mqClient:   ctxPkg.GetMQClient(c),
		cfg:        configs.GetConfig(),
	}
}

// findOwned 按 ID 查找属于 ownerID 的未删除记录.
// 不存在、已软删除、属他人且非公开时一律返回 ErrNotFound.
func (fs *FileService) findOwned(ctx context.Context, ownerID, fileID uint, allowPublic bool) (*model.File, error) {
	var file model.File

	query := fs.dbClient.DB.WithContext(ctx).Where("id = ?", fileID)
	if allowPublic {
		query = query.Where("owner_id = ? OR is_public = ?", ownerID, true)
	} else {
		query = query.Where("owner_id = ?", ownerID)
	}

	if err := query.First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &file, nil
}
