package model

import (
	"time"

	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// User 用户模型，承载认证信息与用量计数器.
// 计数器字段只允许通过原子 SQL 表达式更新，禁止读-改-写.
type User struct {
	ID             uint   `gorm:"primaryKey"            json:"id"`
	Email          string `gorm:"size:255;uniqueIndex"  json:"email"`
	Username       string `gorm:"size:64;uniqueIndex"   json:"username"`
	HashedPassword string `gorm:"size:128"              json:"-"`
	FullName       string `gorm:"size:255"              json:"full_name"`
	IsActive       bool   `gorm:"default:true"          json:"is_active"`
	IsVerified     bool   `gorm:"default:false"         json:"is_verified"`

	// 用量计数器
	FileUploadsCount int64 `gorm:"not null;default:0" json:"file_uploads_count"`
	AnalysesCount    int64 `gorm:"not null;default:0" json:"analyses_count"`
	// StorageUsed 当前占用字节数，删除文件时递减并钳制到 0
	StorageUsed int64 `gorm:"not null;default:0" json:"storage_used"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToResponse 转换为 API 响应结构.
func (u *User) ToResponse() itypes.UserResponse {
	return itypes.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FullName:   u.FullName,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}
