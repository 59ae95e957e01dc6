// Package model 定义数据库模型，以 DB 为真源.
package model

import "gorm.io/gorm"

// AutoMigrate 迁移全部业务表.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&File{},
	)
}
