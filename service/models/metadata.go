/*
 * @module service/models/metadata
 * @description 元数据模型定义，包括虚拟对象、对象字段、列表视图和详情布局配置
 * @architecture 分层架构 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 元数据由管理员维护，业务记录按对象关联存储
 * @rules 所有实体使用32位随机ID，删除统一为软删除（deleted="1"），读取统一过滤 deleted="0"
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/projection
 */

package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// FlagActive 软删除标志位：有效
	FlagActive = "0"
	// FlagDeleted 软删除标志位：已删除
	FlagDeleted = "1"
)

// NewID 生成32位随机标识（uuid去掉连字符）
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Object 虚拟对象定义，一种可配置的业务实体类型
type Object struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Name      string `json:"name" gorm:"not null;size:255" example:"account"`
	Label     string `json:"label" gorm:"size:255" example:"医生"`
	TableName string `json:"table_name" gorm:"size:255"` // 历史遗留字段，仅作提示，不参与存储路由
	// PageListID 显式关联的列表视图。为空时退回按字段引用推断
	PageListID *string `json:"page_list_id" gorm:"type:varchar(32)"`
	Deleted    string  `json:"deleted" gorm:"not null;size:1;default:'0'"`

	// 关联关系
	Fields []ObjectField `json:"fields,omitempty" gorm:"foreignKey:ObjectID"`
}

// ObjectField 对象字段定义，name 即业务记录 data 文档中的键
type ObjectField struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	ObjectID string `json:"object_id" gorm:"not null;type:varchar(32);index"`
	Name     string `json:"name" gorm:"not null;size:255" example:"account_name"`
	Type     string `json:"type" gorm:"not null;size:255" example:"text"`
	Deleted  string `json:"deleted" gorm:"not null;size:1;default:'0'"`

	Object Object `json:"object,omitempty" gorm:"foreignKey:ObjectID"`
}

// PageList 列表视图配置
type PageList struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Name    string `json:"name" gorm:"not null;size:255" example:"account_list"`
	Label   string `json:"label" gorm:"size:255" example:"我的医生列表"`
	Deleted string `json:"deleted" gorm:"not null;size:1;default:'0'"`

	Fields  []PageListField `json:"fields,omitempty" gorm:"foreignKey:PageListID"`
	Layouts []PageLayout    `json:"layouts,omitempty" gorm:"foreignKey:PageListID"`
}

// PageListField 列表视图列配置：把一个对象字段绑定进列表视图，
// name 为展示标签，hidden 控制列表可见性
type PageListField struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Name          string `json:"name" gorm:"not null;size:255" example:"姓名"`
	ObjectFieldID string `json:"object_field_id" gorm:"not null;type:varchar(32);index"`
	PageListID    string `json:"page_list_id" gorm:"not null;type:varchar(32);index"`
	Hidden        string `json:"hidden" gorm:"not null;size:1;default:'0'"`
	Type          string `json:"type" gorm:"not null;size:255" example:"text"`
	Deleted       string `json:"deleted" gorm:"not null;size:1;default:'0'"`

	ObjectField ObjectField `json:"object_field,omitempty" gorm:"foreignKey:ObjectFieldID"`
}

// PageLayout 详情布局配置，从属于某个列表视图
type PageLayout struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Name       string `json:"name" gorm:"not null;size:255" example:"我的医生详情"`
	PageListID string `json:"page_list_id" gorm:"not null;type:varchar(32);index"`
	Deleted    string `json:"deleted" gorm:"not null;size:1;default:'0'"`

	Fields []PageLayoutField `json:"fields,omitempty" gorm:"foreignKey:PageLayoutID"`
}

// PageLayoutField 详情字段配置：把一个对象字段绑定进详情布局，name 为展示标签
type PageLayoutField struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Name          string `json:"name" gorm:"not null;size:255" example:"医生姓名"`
	Label         string `json:"label" gorm:"size:255"`
	PageLayoutID  string `json:"page_layout_id" gorm:"not null;type:varchar(32);index"`
	ObjectFieldID string `json:"object_field_id" gorm:"not null;type:varchar(32);index"`
	Type          string `json:"type" gorm:"not null;size:255" example:"text"`
	Deleted       string `json:"deleted" gorm:"not null;size:1;default:'0'"`

	ObjectField ObjectField `json:"object_field,omitempty" gorm:"foreignKey:ObjectFieldID"`
}

// BeforeCreate GORM钩子，创建前生成ID并补默认标志位
func (o *Object) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	if o.Deleted == "" {
		o.Deleted = FlagActive
	}
	return nil
}

func (f *ObjectField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	if f.Deleted == "" {
		f.Deleted = FlagActive
	}
	return nil
}

func (p *PageList) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Deleted == "" {
		p.Deleted = FlagActive
	}
	return nil
}

func (f *PageListField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	if f.Hidden == "" {
		f.Hidden = FlagActive
	}
	if f.Deleted == "" {
		f.Deleted = FlagActive
	}
	return nil
}

func (p *PageLayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Deleted == "" {
		p.Deleted = FlagActive
	}
	return nil
}

func (f *PageLayoutField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	if f.Deleted == "" {
		f.Deleted = FlagActive
	}
	return nil
}
