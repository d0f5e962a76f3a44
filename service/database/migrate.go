/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新元数据与业务记录表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies github.com/Nekopanti/crm-project/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"log/slog"

	"github.com/Nekopanti/crm-project/service/models"
	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	slog.Info("开始数据库迁移")

	// 元数据表
	err := db.AutoMigrate(
		&models.Object{},
		&models.ObjectField{},
		&models.PageList{},
		&models.PageListField{},
		&models.PageLayout{},
		&models.PageLayoutField{},
	)
	if err != nil {
		return err
	}

	// 业务记录表
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return err
	}

	slog.Info("数据库迁移完成")
	return nil
}
