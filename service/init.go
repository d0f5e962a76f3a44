/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、迁移和全局服务装配
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保数据库与迁移就绪后才提供API服务
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/database, service/metadata, service/account, service/cleanup
 */

package service

import (
	"fmt"
	"log"
	"os"

	"github.com/Nekopanti/crm-project/service/account"
	"github.com/Nekopanti/crm-project/service/cleanup"
	"github.com/Nekopanti/crm-project/service/database"
	"github.com/Nekopanti/crm-project/service/metadata"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                       *gorm.DB
	GlobalMetadataService    *metadata.Service
	GlobalAccountService     *account.Service
	GlobalOrphanSweepService *cleanup.OrphanSweepService
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := database.SeedDemoData(DB); err != nil {
			log.Fatalf("演示数据初始化失败: %v", err)
		}
	}
}

// initServices 初始化服务
func initServices() {
	GlobalMetadataService = metadata.NewService(DB)
	GlobalAccountService = account.NewService(DB)
	GlobalOrphanSweepService = cleanup.NewOrphanSweepService(DB, os.Getenv("ORPHAN_SWEEP_CRON"))

	if err := GlobalOrphanSweepService.Start(); err != nil {
		log.Printf("启动孤儿清理服务失败: %v", err)
	}
	log.Println("服务初始化完成")
}
