/*
 * @module service/cleanup/orphan_sweep_service
 * @description 孤儿清理服务：定时修复软删除级联遗留的悬挂依赖
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/model.md
 * @stateFlow 定时触发 -> 父实体先于子实体逐层清理 -> 记录结果
 * @rules 清理是尽力而为且顺序敏感的：先对象字段，再列表列/详情字段，最后布局
 * @dependencies gorm.io/gorm, github.com/robfig/cron/v3
 * @refs service/metadata/service.go
 */

package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/Nekopanti/crm-project/service/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DefaultSweepCron 默认每小时整点清理一次
const DefaultSweepCron = "0 0 * * * *"

// OrphanSweepService 孤儿清理服务
type OrphanSweepService struct {
	db      *gorm.DB
	cron    *cron.Cron
	spec    string
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// NewOrphanSweepService 创建孤儿清理服务实例。
// spec 同时接受5字段（标准cron）和6字段（带秒）表达式
func NewOrphanSweepService(db *gorm.DB, spec string) *OrphanSweepService {
	if spec == "" {
		spec = DefaultSweepCron
	}
	ctx, cancel := context.WithCancel(context.Background())
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &OrphanSweepService{
		db:     db,
		cron:   cron.New(cron.WithParser(parser)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动定时清理
func (s *OrphanSweepService) Start() error {
	if s.started {
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.Sweep(s.ctx); err != nil {
			slog.Error("孤儿清理执行失败", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.started = true
	slog.Info("孤儿清理服务已启动", "cron", s.spec)
	return nil
}

// Stop 停止定时清理
func (s *OrphanSweepService) Stop() {
	if !s.started {
		return
	}
	s.cancel()
	s.cron.Stop()
	s.started = false
	slog.Info("孤儿清理服务已停止")
}

// SweepResult 单次清理结果
type SweepResult struct {
	ObjectFields     int64 `json:"object_fields"`
	PageListFields   int64 `json:"page_list_fields"`
	PageLayouts      int64 `json:"page_layouts"`
	PageLayoutFields int64 `json:"page_layout_fields"`
}

// Sweep 执行一次清理：把父实体已软删除、自身仍存活的依赖补删掉。
// 顺序敏感：先补删对象字段，再补删引用它们的列表列/详情字段
func (s *OrphanSweepService) Sweep(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	result := &SweepResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 对象已删而字段仍存活
		res := tx.Model(&models.ObjectField{}).
			Where("deleted = ?", models.FlagActive).
			Where("object_id IN (?)", tx.Model(&models.Object{}).Select("id").
				Where("deleted = ?", models.FlagDeleted)).
			Update("deleted", models.FlagDeleted)
		if res.Error != nil {
			return res.Error
		}
		result.ObjectFields = res.RowsAffected

		// 2. 列表视图已删或引用的对象字段已删的列表列
		res = tx.Model(&models.PageListField{}).
			Where("deleted = ?", models.FlagActive).
			Where("page_list_id IN (?) OR object_field_id IN (?)",
				tx.Model(&models.PageList{}).Select("id").Where("deleted = ?", models.FlagDeleted),
				tx.Model(&models.ObjectField{}).Select("id").Where("deleted = ?", models.FlagDeleted)).
			Update("deleted", models.FlagDeleted)
		if res.Error != nil {
			return res.Error
		}
		result.PageListFields = res.RowsAffected

		// 3. 列表视图已删的详情布局
		res = tx.Model(&models.PageLayout{}).
			Where("deleted = ?", models.FlagActive).
			Where("page_list_id IN (?)", tx.Model(&models.PageList{}).Select("id").
				Where("deleted = ?", models.FlagDeleted)).
			Update("deleted", models.FlagDeleted)
		if res.Error != nil {
			return res.Error
		}
		result.PageLayouts = res.RowsAffected

		// 4. 布局已删或引用的对象字段已删的详情字段
		res = tx.Model(&models.PageLayoutField{}).
			Where("deleted = ?", models.FlagActive).
			Where("page_layout_id IN (?) OR object_field_id IN (?)",
				tx.Model(&models.PageLayout{}).Select("id").Where("deleted = ?", models.FlagDeleted),
				tx.Model(&models.ObjectField{}).Select("id").Where("deleted = ?", models.FlagDeleted)).
			Update("deleted", models.FlagDeleted)
		if res.Error != nil {
			return res.Error
		}
		result.PageLayoutFields = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("孤儿清理完成",
		"object_fields", result.ObjectFields,
		"page_list_fields", result.PageListFields,
		"page_layouts", result.PageLayouts,
		"page_layout_fields", result.PageLayoutFields,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
