/*
 * @module service/account/service
 * @description 业务记录服务：记录CRUD、前缀搜索、白名单动态排序与元数据驱动的投影输出
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/model.md
 * @stateFlow 字段映射解析 -> 记录查询（搜索/排序/分页）-> 投影输出
 * @rules 每次列表/详情调用都重新解析元数据，不做进程内缓存（元数据低频变更、记录集小，换新鲜度）
 * @dependencies gorm.io/gorm, github.com/Nekopanti/crm-project/service/projection
 * @refs service/projection, api/controllers/account_controller.go
 */

package account

import (
	"errors"
	"time"

	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/service/projection"
	"gorm.io/gorm"
)

// Service 业务记录服务
type Service struct {
	db       *gorm.DB
	resolver *projection.Resolver
}

// NewService 创建业务记录服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, resolver: projection.NewResolver(db)}
}

// ListQuery 列表查询参数
type ListQuery struct {
	ObjectID  string
	Search    string
	SortField string
	SortOrder string
	Page      int
	PageSize  int
}

// ListAccounts 按对象列出带标签的记录：
// 解析字段映射，按 account_name 前缀过滤，白名单排序，分页后投影
func (s *Service) ListAccounts(q ListQuery) ([]*projection.LabeledRecord, int64, error) {
	fm, err := s.resolver.ResolveFieldMap(q.ObjectID)
	if err != nil {
		return nil, 0, err
	}

	dialect := s.db.Dialector.Name()
	query := s.db.Model(&models.Account{}).
		Where("object_id = ? AND deleted = ?", q.ObjectID, models.FlagActive)
	if q.Search != "" {
		query = query.Where(projection.SearchClause(dialect), q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := projection.NormalizeSort(q.SortField, q.SortOrder)
	var records []models.Account
	err = query.Order(sort.Clause(dialect)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return projection.ProjectList(records, fm), total, nil
}

// Detail 详情响应：布局元数据 + 投影结果
type Detail struct {
	Layout       *models.PageLayout        `json:"layout"`
	PageLayout   *projection.LabeledRecord `json:"page_layout"`
	FilteredData map[string]string         `json:"filtered_data"`
	AccountData  map[string]interface{}    `json:"account_data"`
}

// GetAccountDetail 按详情布局投影单条记录
func (s *Service) GetAccountDetail(id, pageListID string) (*Detail, error) {
	var record models.Account
	err := s.db.Where("id = ? AND deleted = ?", id, models.FlagActive).First(&record).Error
	if err != nil {
		return nil, err
	}

	layout, fm, err := s.resolver.ResolveLayoutMap(pageListID)
	if err != nil {
		return nil, err
	}

	projected := projection.ProjectDetail(&record, fm)
	return &Detail{
		Layout:       layout,
		PageLayout:   projected.PageLayout,
		FilteredData: projected.FilteredData,
		AccountData:  projected.AccountData,
	}, nil
}

// GetAccount 按ID获取原始记录
func (s *Service) GetAccount(id string) (*models.Account, error) {
	var record models.Account
	err := s.db.Where("id = ? AND deleted = ?", id, models.FlagActive).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateAccount 创建记录；所属对象必须存在。data 不与对象字段定义做schema校验
func (s *Service) CreateAccount(objectID string, data models.JSONB) (*models.Account, error) {
	var count int64
	err := s.db.Model(&models.Object{}).
		Where("id = ? AND deleted = ?", objectID, models.FlagActive).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, projection.ErrObjectNotFound
	}

	record := &models.Account{
		ObjectID: objectID,
		Data:     data,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateAccountData 整体替换 data 文档（非深合并），同一输入重复提交结果一致
func (s *Service) UpdateAccountData(id string, data models.JSONB) (*models.Account, error) {
	var record models.Account
	err := s.db.Where("id = ? AND deleted = ?", id, models.FlagActive).First(&record).Error
	if err != nil {
		return nil, err
	}

	record.Data = data
	record.UpdatedAt = time.Now()
	err = s.db.Model(&models.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{"data": data, "updated_at": record.UpdatedAt}).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteAccount 软删除记录
func (s *Service) DeleteAccount(id string) error {
	result := s.db.Model(&models.Account{}).
		Where("id = ? AND deleted = ?", id, models.FlagActive).
		Update("deleted", models.FlagDeleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound 统一判定“实体不存在”类错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, projection.ErrObjectNotFound) ||
		errors.Is(err, projection.ErrPageLayoutNotFound)
}
