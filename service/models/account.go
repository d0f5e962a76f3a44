/*
 * @module service/models/account
 * @description 业务记录模型，按对象关联存储半结构化业务数据文档
 * @architecture 分层架构 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 业务记录由API客户端高频读写，data 文档不做schema校验
 * @rules data 的键约定对应所属对象的 ObjectField.name，一致性是约定而非约束
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/models/metadata.go
 */

package models

import (
	"time"

	"gorm.io/gorm"
)

// Account 业务记录，data 为开放的键值文档
type Account struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(32)"`
	ObjectID  string    `json:"object_id" gorm:"not null;type:varchar(32);index"`
	Data      JSONB     `json:"data" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	Deleted   string    `json:"deleted" gorm:"not null;size:1;default:'0'"`
}

// TableName 业务记录落在历史表 t_account
func (Account) TableName() string {
	return "t_account"
}

// BeforeCreate GORM钩子，创建前生成ID并补默认标志位
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Deleted == "" {
		a.Deleted = FlagActive
	}
	return nil
}
