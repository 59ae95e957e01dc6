package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeisme/tablevault/pkg/internal/model"
	itypes "github.com/yeisme/tablevault/pkg/internal/types"
	"github.com/yeisme/tablevault/pkg/queue"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// List 返回调用者自己的文件列表，支持按状态与类型过滤.
func (fs *FileService) List(ctx context.Context, ownerID uint, req *itypes.FileListRequest) (*itypes.FileListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := fs.dbClient.DB.WithContext(ctx).Model(&model.File{}).Where("owner_id = ?", ownerID)

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.FileType != "" {
		query = query.Where("file_type = ?", req.FileType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var files []model.File
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&files).Error; err != nil {
		return nil, err
	}

	resp := &itypes.FileListResponse{
		Files:    make([]itypes.FileResponse, 0, len(files)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	for i := range files {
		resp.Files = append(resp.Files, files[i].ToResponse())
	}

	return resp, nil
}

// Get 返回单个文件详情，含已有的分析元数据与结果.
func (fs *FileService) Get(ctx context.Context, ownerID, fileID uint) (*itypes.FileDetailResponse, error) {
	file, err := fs.findOwned(ctx, ownerID, fileID, true)
	if err != nil {
		return nil, err
	}

	meta, err := file.Metadata()
	if err != nil {
		return nil, err
	}

	results, err := file.Results()
	if err != nil {
		return nil, err
	}

	return &itypes.FileDetailResponse{
		FileResponse: file.ToResponse(),
		Metadata:     meta,
		Results:      results,
	}, nil
}

// Metadata 仅返回文件的分析元数据.
func (fs *FileService) Metadata(ctx context.Context, ownerID, fileID uint) (*itypes.FileMetadataResponse, error) {
	file, err := fs.findOwned(ctx, ownerID, fileID, true)
	if err != nil {
		return nil, err
	}

	meta, err := file.Metadata()
	if err != nil {
		return nil, err
	}

	return &itypes.FileMetadataResponse{
		ID:       file.ID,
		Filename: file.Filename,
		Status:   string(file.Status),
		Metadata: meta,
	}, nil
}

// Update 修改文件名或可见性，仅属主可操作.
func (fs *FileService) Update(ctx context.Context, ownerID, fileID uint, req *itypes.FileUpdateRequest) (*itypes.FileResponse, error) {
	file, err := fs.findOwned(ctx, ownerID, fileID, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	var changed []string

	if req.Filename != nil && *req.Filename != file.Filename {
		updates["filename"] = *req.Filename
		file.Filename = *req.Filename
		changed = append(changed, "filename")
	}

	if req.IsPublic != nil && *req.IsPublic != file.IsPublic {
		updates["is_public"] = *req.IsPublic
		file.IsPublic = *req.IsPublic
		changed = append(changed, "is_public")
	}

	if len(updates) > 0 {
		if err := fs.dbClient.DB.WithContext(ctx).Model(file).Updates(updates).Error; err != nil {
			return nil, err
		}

		if pub := fs.mqClient.Publisher(); pub != nil {
			_ = queue.PublishFileUpdated(pub, queue.FileUpdatedPayload{
				File:          fileRef(file),
				ChangedFields: changed,
			})
		}
	}

	resp := file.ToResponse()

	return &resp, nil
}

// SoftDelete 软删除文件并返还属主的存储用量，扣减在 0 处钳制.
// 字节与记录原地保留，由后台巡检任务延迟清理.
func (fs *FileService) SoftDelete(ctx context.Context, ownerID, fileID uint) error {
	file, err := fs.findOwned(ctx, ownerID, fileID, false)
	if err != nil {
		return err
	}

	err = fs.dbClient.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", fileID, ownerID).Delete(&model.File{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.Model(&model.User{}).Where("id = ?", ownerID).
			UpdateColumn("storage_used",
				gorm.Expr("CASE WHEN storage_used >= ? THEN storage_used - ? ELSE 0 END", file.Size, file.Size),
			).Error
	})
	if err != nil {
		return err
	}

	if pub := fs.mqClient.Publisher(); pub != nil {
		_ = queue.PublishFileDeleted(pub, queue.FileDeletedPayload{
			File:       fileRef(file),
			FreedBytes: file.Size,
		})
	}

	return nil
}
