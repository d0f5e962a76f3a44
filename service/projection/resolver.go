/*
 * @module service/projection/resolver
 * @description 字段映射解析器：由对象定位列表视图和详情布局，构建 业务键->展示标签 的映射表
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/model.md
 * @stateFlow 对象查找 -> 列表视图定位 -> 可见列查询 -> 映射表构建
 * @rules 所有查询过滤 deleted="0"；列表列另过滤 hidden="0"；重复业务键后写覆盖
 * @dependencies gorm.io/gorm
 * @refs service/projection/projector.go, service/models/metadata.go
 */

package projection

import (
	"errors"

	"github.com/Nekopanti/crm-project/service/models"
	"gorm.io/gorm"
)

var (
	// ErrObjectNotFound 对象不存在
	ErrObjectNotFound = errors.New("对象不存在")
	// ErrNoPageList 对象没有关联任何列表视图
	ErrNoPageList = errors.New("对象未配置列表视图")
	// ErrNoVisibleFields 列表视图没有可见字段
	ErrNoVisibleFields = errors.New("列表视图没有可见字段")
	// ErrPageLayoutNotFound 列表视图下没有详情布局
	ErrPageLayoutNotFound = errors.New("详情布局不存在")
)

// FieldMap 业务键到展示标签的有序映射，既是白名单也是改名表
type FieldMap struct {
	keys   []string
	labels map[string]string
}

func newFieldMap() *FieldMap {
	return &FieldMap{labels: make(map[string]string)}
}

// put 重复键覆盖标签，保留首次插入的位置
func (m *FieldMap) put(key, label string) {
	if _, ok := m.labels[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.labels[key] = label
}

// Keys 返回插入顺序的业务键列表
func (m *FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Label 返回业务键对应的展示标签
func (m *FieldMap) Label(key string) (string, bool) {
	label, ok := m.labels[key]
	return label, ok
}

// Len 返回映射条目数
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// Resolver 字段映射解析器
type Resolver struct {
	db *gorm.DB
}

// NewResolver 创建字段映射解析器
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// mappedColumn 连表查询出的一列：业务键 + 展示标签
type mappedColumn struct {
	FieldKey string
	Label    string
}

// ResolveFieldMap 解析对象的列表字段映射
//
// 优先走对象上显式的 page_list_id；未配置时按字段引用推断，
// 并按 page_lists.id 升序取第一个，保证多列表歧义下结果确定。
func (r *Resolver) ResolveFieldMap(objectID string) (*FieldMap, error) {
	var obj models.Object
	err := r.db.Where("id = ? AND deleted = ?", objectID, models.FlagActive).First(&obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	pageListID, err := r.locatePageList(&obj)
	if err != nil {
		return nil, err
	}

	var columns []mappedColumn
	err = r.db.Table("page_list_fields").
		Select("object_fields.name AS field_key, page_list_fields.name AS label").
		Joins("JOIN object_fields ON object_fields.id = page_list_fields.object_field_id").
		Where("page_list_fields.page_list_id = ?", pageListID).
		Where("page_list_fields.deleted = ? AND page_list_fields.hidden = ?", models.FlagActive, models.FlagActive).
		Where("object_fields.deleted = ?", models.FlagActive).
		Order("page_list_fields.id").
		Scan(&columns).Error
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, ErrNoVisibleFields
	}

	fm := newFieldMap()
	for _, col := range columns {
		fm.put(col.FieldKey, col.Label)
	}
	return fm, nil
}

// locatePageList 定位对象的列表视图ID
func (r *Resolver) locatePageList(obj *models.Object) (string, error) {
	if obj.PageListID != nil && *obj.PageListID != "" {
		var pl models.PageList
		err := r.db.Where("id = ? AND deleted = ?", *obj.PageListID, models.FlagActive).First(&pl).Error
		if err == nil {
			return pl.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		// 显式关联指向已删除的列表时退回推断
	}

	var pl models.PageList
	err := r.db.Table("page_lists").
		Select("page_lists.*").
		Joins("JOIN page_list_fields ON page_list_fields.page_list_id = page_lists.id").
		Joins("JOIN object_fields ON object_fields.id = page_list_fields.object_field_id").
		Where("object_fields.object_id = ?", obj.ID).
		Where("page_lists.deleted = ? AND page_list_fields.deleted = ? AND object_fields.deleted = ?",
			models.FlagActive, models.FlagActive, models.FlagActive).
		Order("page_lists.id").
		Limit(1).
		Scan(&pl).Error
	if err != nil {
		return "", err
	}
	if pl.ID == "" {
		return "", ErrNoPageList
	}
	return pl.ID, nil
}

// ResolveLayoutMap 解析列表视图下详情布局的字段映射，
// 布局上随带其存活的字段配置。
//
// 同一列表视图存在多个布局时按 page_layouts.id 升序取第一个。
func (r *Resolver) ResolveLayoutMap(pageListID string) (*models.PageLayout, *FieldMap, error) {
	var layout models.PageLayout
	err := r.db.Where("page_list_id = ? AND deleted = ?", pageListID, models.FlagActive).
		Order("id").
		First(&layout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPageLayoutNotFound
		}
		return nil, nil, err
	}

	err = r.db.Where("page_layout_id = ? AND deleted = ?", layout.ID, models.FlagActive).
		Order("id").
		Find(&layout.Fields).Error
	if err != nil {
		return nil, nil, err
	}

	var columns []mappedColumn
	err = r.db.Table("page_layout_fields").
		Select("object_fields.name AS field_key, page_layout_fields.name AS label").
		Joins("JOIN object_fields ON object_fields.id = page_layout_fields.object_field_id").
		Where("page_layout_fields.page_layout_id = ?", layout.ID).
		Where("page_layout_fields.deleted = ? AND object_fields.deleted = ?", models.FlagActive, models.FlagActive).
		Order("page_layout_fields.id").
		Scan(&columns).Error
	if err != nil {
		return nil, nil, err
	}

	fm := newFieldMap()
	for _, col := range columns {
		fm.put(col.FieldKey, col.Label)
	}
	return &layout, fm, nil
}
