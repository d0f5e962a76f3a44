/*
 * @module service/metadata/service
 * @description 元数据CRUD门面：对象、对象字段、列表视图、详情布局的增删改查与组合事务操作
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/model.md
 * @stateFlow 校验 -> 单事务内顺序写入 -> 任一依赖失败整体回滚
 * @rules 组合写入全部走显式事务；删除统一软删除并在同一事务内级联；读取过滤 deleted="0"
 * @dependencies gorm.io/gorm
 * @refs service/models/metadata.go, api/controllers
 */

package metadata

import (
	"errors"
	"fmt"

	"github.com/Nekopanti/crm-project/service/models"
	"gorm.io/gorm"
)

// Service 元数据服务
type Service struct {
	db *gorm.DB
}

// NewService 创建元数据服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LayoutInput 组合创建时的详情布局及其字段
type LayoutInput struct {
	Layout *models.PageLayout        `json:"layout"`
	Fields []*models.PageLayoutField `json:"fields"`
}

// FieldUpdate 组合更新时单个实体的部分字段集
type FieldUpdate struct {
	ID      string
	Updates map[string]interface{}
}

func active(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", models.FlagActive)
}

// === 校验 ===

func validateObject(obj *models.Object) error {
	if obj.Name == "" {
		return errors.New("对象名称不能为空")
	}
	return nil
}

func (s *Service) validateObjectField(tx *gorm.DB, field *models.ObjectField) error {
	if field.Name == "" {
		return errors.New("字段名称不能为空")
	}
	if field.Type == "" {
		return errors.New("字段类型不能为空")
	}
	var count int64
	if err := active(tx.Model(&models.Object{})).Where("id = ?", field.ObjectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的对象不存在")
	}
	return nil
}

func (s *Service) validatePageListField(tx *gorm.DB, field *models.PageListField) error {
	if field.Name == "" {
		return errors.New("列表字段名称不能为空")
	}
	var count int64
	if err := active(tx.Model(&models.PageList{})).Where("id = ?", field.PageListID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的列表视图不存在")
	}
	if err := active(tx.Model(&models.ObjectField{})).Where("id = ?", field.ObjectFieldID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的对象字段不存在")
	}
	return nil
}

func (s *Service) validatePageLayout(tx *gorm.DB, layout *models.PageLayout) error {
	if layout.Name == "" {
		return errors.New("布局名称不能为空")
	}
	var count int64
	if err := active(tx.Model(&models.PageList{})).Where("id = ?", layout.PageListID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的列表视图不存在")
	}
	return nil
}

func (s *Service) validatePageLayoutField(tx *gorm.DB, field *models.PageLayoutField) error {
	if field.Name == "" {
		return errors.New("详情字段名称不能为空")
	}
	var count int64
	if err := active(tx.Model(&models.PageLayout{})).Where("id = ?", field.PageLayoutID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的详情布局不存在")
	}
	if err := active(tx.Model(&models.ObjectField{})).Where("id = ?", field.ObjectFieldID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("关联的对象字段不存在")
	}
	return nil
}

// === Object ===

// CreateObject 创建对象
func (s *Service) CreateObject(obj *models.Object) error {
	if err := validateObject(obj); err != nil {
		return err
	}
	return s.db.Create(obj).Error
}

// GetObject 按ID获取对象
func (s *Service) GetObject(id string) (*models.Object, error) {
	var obj models.Object
	err := active(s.db).Where("id = ?", id).First(&obj).Error
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// GetObjects 分页获取对象列表
func (s *Service) GetObjects(page, pageSize int) ([]models.Object, int64, error) {
	var objects []models.Object
	var total int64

	query := active(s.db.Model(&models.Object{}))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&objects).Error
	return objects, total, err
}

// UpdateObject 部分更新对象，未提交的字段保持不变
func (s *Service) UpdateObject(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.Object{}, id, updates)
}

// DeleteObject 软删除对象并在同一事务内级联：
// 先删引用其字段的列表列/详情字段，再删对象字段，最后删对象
func (s *Service) DeleteObject(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var obj models.Object
		if err := active(tx).Where("id = ?", id).First(&obj).Error; err != nil {
			return err
		}

		var fieldIDs []string
		if err := active(tx.Model(&models.ObjectField{})).Where("object_id = ?", id).
			Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}

		if len(fieldIDs) > 0 {
			if err := softDelete(tx, &models.PageListField{}, "object_field_id IN ?", fieldIDs); err != nil {
				return err
			}
			if err := softDelete(tx, &models.PageLayoutField{}, "object_field_id IN ?", fieldIDs); err != nil {
				return err
			}
			if err := softDelete(tx, &models.ObjectField{}, "object_id = ?", id); err != nil {
				return err
			}
		}

		return softDelete(tx, &models.Object{}, "id = ?", id)
	})
}

// === ObjectField ===

// CreateObjectField 创建对象字段
func (s *Service) CreateObjectField(field *models.ObjectField) error {
	if err := s.validateObjectField(s.db, field); err != nil {
		return err
	}
	return s.db.Create(field).Error
}

// GetObjectField 按ID获取对象字段
func (s *Service) GetObjectField(id string) (*models.ObjectField, error) {
	var field models.ObjectField
	err := active(s.db).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// GetObjectFields 分页获取对象字段，可按所属对象过滤
func (s *Service) GetObjectFields(objectID string, page, pageSize int) ([]models.ObjectField, int64, error) {
	var fields []models.ObjectField
	var total int64

	query := active(s.db.Model(&models.ObjectField{}))
	if objectID != "" {
		query = query.Where("object_id = ?", objectID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&fields).Error
	return fields, total, err
}

// UpdateObjectField 部分更新对象字段
func (s *Service) UpdateObjectField(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.ObjectField{}, id, updates)
}

// DeleteObjectField 软删除对象字段并级联删除引用它的列表列/详情字段
func (s *Service) DeleteObjectField(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var field models.ObjectField
		if err := active(tx).Where("id = ?", id).First(&field).Error; err != nil {
			return err
		}
		if err := softDelete(tx, &models.PageListField{}, "object_field_id = ?", id); err != nil {
			return err
		}
		if err := softDelete(tx, &models.PageLayoutField{}, "object_field_id = ?", id); err != nil {
			return err
		}
		return softDelete(tx, &models.ObjectField{}, "id = ?", id)
	})
}

// === PageList ===

// CreatePageList 创建列表视图
func (s *Service) CreatePageList(pl *models.PageList) error {
	if pl.Name == "" {
		return errors.New("列表视图名称不能为空")
	}
	return s.db.Create(pl).Error
}

// GetPageList 按ID获取列表视图
func (s *Service) GetPageList(id string) (*models.PageList, error) {
	var pl models.PageList
	err := active(s.db).Where("id = ?", id).First(&pl).Error
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

// GetPageLists 分页获取列表视图
func (s *Service) GetPageLists(page, pageSize int) ([]models.PageList, int64, error) {
	var lists []models.PageList
	var total int64

	query := active(s.db.Model(&models.PageList{}))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&lists).Error
	return lists, total, err
}

// UpdatePageList 部分更新列表视图
func (s *Service) UpdatePageList(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.PageList{}, id, updates)
}

// DeletePageList 软删除列表视图并级联删除列表列、详情布局及其字段，
// 同时解除对象上对它的显式关联
func (s *Service) DeletePageList(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pl models.PageList
		if err := active(tx).Where("id = ?", id).First(&pl).Error; err != nil {
			return err
		}

		var layoutIDs []string
		if err := active(tx.Model(&models.PageLayout{})).Where("page_list_id = ?", id).
			Pluck("id", &layoutIDs).Error; err != nil {
			return err
		}
		if len(layoutIDs) > 0 {
			if err := softDelete(tx, &models.PageLayoutField{}, "page_layout_id IN ?", layoutIDs); err != nil {
				return err
			}
			if err := softDelete(tx, &models.PageLayout{}, "page_list_id = ?", id); err != nil {
				return err
			}
		}
		if err := softDelete(tx, &models.PageListField{}, "page_list_id = ?", id); err != nil {
			return err
		}
		if err := tx.Model(&models.Object{}).Where("page_list_id = ?", id).
			Update("page_list_id", nil).Error; err != nil {
			return err
		}
		return softDelete(tx, &models.PageList{}, "id = ?", id)
	})
}

// === PageListField ===

// CreatePageListField 创建列表列
func (s *Service) CreatePageListField(field *models.PageListField) error {
	if err := s.validatePageListField(s.db, field); err != nil {
		return err
	}
	return s.db.Create(field).Error
}

// GetPageListField 按ID获取列表列
func (s *Service) GetPageListField(id string) (*models.PageListField, error) {
	var field models.PageListField
	err := active(s.db).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// GetPageListFields 分页获取列表列，可按列表视图过滤
func (s *Service) GetPageListFields(pageListID string, page, pageSize int) ([]models.PageListField, int64, error) {
	var fields []models.PageListField
	var total int64

	query := active(s.db.Model(&models.PageListField{}))
	if pageListID != "" {
		query = query.Where("page_list_id = ?", pageListID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&fields).Error
	return fields, total, err
}

// UpdatePageListField 部分更新列表列
func (s *Service) UpdatePageListField(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.PageListField{}, id, updates)
}

// DeletePageListField 软删除列表列，并做尽力而为的孤儿清理：
// 没有其他列表列引用同一对象字段时连带删除该字段，
// 对象不再有存活字段时连带删除对象。顺序敏感
func (s *Service) DeletePageListField(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var field models.PageListField
		if err := active(tx).Where("id = ?", id).First(&field).Error; err != nil {
			return err
		}
		if err := softDelete(tx, &models.PageListField{}, "id = ?", id); err != nil {
			return err
		}

		var refs int64
		if err := active(tx.Model(&models.PageListField{})).
			Where("object_field_id = ?", field.ObjectFieldID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return nil
		}

		var objField models.ObjectField
		if err := active(tx).Where("id = ?", field.ObjectFieldID).First(&objField).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := softDelete(tx, &models.ObjectField{}, "id = ?", objField.ID); err != nil {
			return err
		}

		var fieldCount int64
		if err := active(tx.Model(&models.ObjectField{})).
			Where("object_id = ?", objField.ObjectID).Count(&fieldCount).Error; err != nil {
			return err
		}
		if fieldCount == 0 {
			return softDelete(tx, &models.Object{}, "id = ?", objField.ObjectID)
		}
		return nil
	})
}

// === PageLayout ===

// CreatePageLayout 创建详情布局
func (s *Service) CreatePageLayout(layout *models.PageLayout) error {
	if err := s.validatePageLayout(s.db, layout); err != nil {
		return err
	}
	return s.db.Create(layout).Error
}

// GetPageLayout 按ID获取详情布局
func (s *Service) GetPageLayout(id string) (*models.PageLayout, error) {
	var layout models.PageLayout
	err := active(s.db).Where("id = ?", id).First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// GetPageLayouts 分页获取详情布局，可按列表视图过滤
func (s *Service) GetPageLayouts(pageListID string, page, pageSize int) ([]models.PageLayout, int64, error) {
	var layouts []models.PageLayout
	var total int64

	query := active(s.db.Model(&models.PageLayout{}))
	if pageListID != "" {
		query = query.Where("page_list_id = ?", pageListID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&layouts).Error
	return layouts, total, err
}

// UpdatePageLayout 部分更新详情布局
func (s *Service) UpdatePageLayout(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.PageLayout{}, id, updates)
}

// DeletePageLayout 软删除详情布局并级联删除其字段
func (s *Service) DeletePageLayout(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var layout models.PageLayout
		if err := active(tx).Where("id = ?", id).First(&layout).Error; err != nil {
			return err
		}
		if err := softDelete(tx, &models.PageLayoutField{}, "page_layout_id = ?", id); err != nil {
			return err
		}
		return softDelete(tx, &models.PageLayout{}, "id = ?", id)
	})
}

// === PageLayoutField ===

// CreatePageLayoutField 创建详情字段
func (s *Service) CreatePageLayoutField(field *models.PageLayoutField) error {
	if err := s.validatePageLayoutField(s.db, field); err != nil {
		return err
	}
	return s.db.Create(field).Error
}

// GetPageLayoutField 按ID获取详情字段
func (s *Service) GetPageLayoutField(id string) (*models.PageLayoutField, error) {
	var field models.PageLayoutField
	err := active(s.db).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// GetPageLayoutFields 分页获取详情字段，可按布局过滤
func (s *Service) GetPageLayoutFields(pageLayoutID string, page, pageSize int) ([]models.PageLayoutField, int64, error) {
	var fields []models.PageLayoutField
	var total int64

	query := active(s.db.Model(&models.PageLayoutField{}))
	if pageLayoutID != "" {
		query = query.Where("page_layout_id = ?", pageLayoutID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&fields).Error
	return fields, total, err
}

// UpdatePageLayoutField 部分更新详情字段
func (s *Service) UpdatePageLayoutField(id string, updates map[string]interface{}) error {
	return s.updateEntity(&models.PageLayoutField{}, id, updates)
}

// DeletePageLayoutField 软删除详情字段
func (s *Service) DeletePageLayoutField(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var field models.PageLayoutField
		if err := active(tx).Where("id = ?", id).First(&field).Error; err != nil {
			return err
		}
		return softDelete(tx, &models.PageLayoutField{}, "id = ?", id)
	})
}

// === 组合事务操作 ===

// CreateObjectWithFields 单事务创建对象及其字段，任一依赖校验失败整体回滚
func (s *Service) CreateObjectWithFields(obj *models.Object, fields []*models.ObjectField) error {
	if err := validateObject(obj); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(obj).Error; err != nil {
			return err
		}
		for i, field := range fields {
			field.ObjectID = obj.ID
			if err := s.validateObjectField(tx, field); err != nil {
				return fmt.Errorf("第%d个字段校验失败: %w", i+1, err)
			}
			if err := tx.Create(field).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateObjectWithFields 单事务部分更新对象及其字段，
// 任一字段更新失败时本次调用的全部更新回滚。
// 与单实体更新一致，deleted/id 不允许通过更新修改
func (s *Service) UpdateObjectWithFields(id string, objUpdates map[string]interface{}, fieldUpdates []FieldUpdate) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var obj models.Object
		if err := active(tx).Where("id = ?", id).First(&obj).Error; err != nil {
			return err
		}
		stripGuarded(objUpdates)
		if len(objUpdates) > 0 {
			if err := tx.Model(&models.Object{}).Where("id = ?", id).Updates(objUpdates).Error; err != nil {
				return err
			}
		}
		for _, fu := range fieldUpdates {
			var field models.ObjectField
			if err := active(tx).Where("id = ? AND object_id = ?", fu.ID, id).First(&field).Error; err != nil {
				return fmt.Errorf("对象字段 %s 不存在: %w", fu.ID, err)
			}
			stripGuarded(fu.Updates)
			if len(fu.Updates) == 0 {
				continue
			}
			if err := tx.Model(&models.ObjectField{}).Where("id = ?", fu.ID).Updates(fu.Updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreatePageListGraph 单事务创建列表视图、列表列、详情布局及详情字段
func (s *Service) CreatePageListGraph(pl *models.PageList, fields []*models.PageListField, layouts []*LayoutInput) error {
	if pl.Name == "" {
		return errors.New("列表视图名称不能为空")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pl).Error; err != nil {
			return err
		}
		for i, field := range fields {
			field.PageListID = pl.ID
			if err := s.validatePageListField(tx, field); err != nil {
				return fmt.Errorf("第%d个列表列校验失败: %w", i+1, err)
			}
			if err := tx.Create(field).Error; err != nil {
				return err
			}
		}
		for i, input := range layouts {
			input.Layout.PageListID = pl.ID
			if err := s.validatePageLayout(tx, input.Layout); err != nil {
				return fmt.Errorf("第%d个详情布局校验失败: %w", i+1, err)
			}
			if err := tx.Create(input.Layout).Error; err != nil {
				return err
			}
			for j, field := range input.Fields {
				field.PageLayoutID = input.Layout.ID
				if err := s.validatePageLayoutField(tx, field); err != nil {
					return fmt.Errorf("第%d个详情布局的第%d个字段校验失败: %w", i+1, j+1, err)
				}
				if err := tx.Create(field).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// === 内部工具 ===

// stripGuarded 从更新集中剔除不允许修改的列
func stripGuarded(updates map[string]interface{}) {
	delete(updates, "deleted")
	delete(updates, "id")
}

// updateEntity 部分更新：deleted 标志不允许通过通用更新修改
func (s *Service) updateEntity(model interface{}, id string, updates map[string]interface{}) error {
	stripGuarded(updates)
	if len(updates) == 0 {
		return nil
	}
	result := active(s.db.Model(model)).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// softDelete 软删除：置 deleted="1"，不做物理删除
func softDelete(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	return tx.Model(model).Where(query, args...).
		Where("deleted = ?", models.FlagActive).
		Update("deleted", models.FlagDeleted).Error
}
