/*
 * @module service/database/seed
 * @description 演示数据初始化：医生名册对象及其列表/详情配置和业务记录
 * @architecture 数据访问层 - 初始化数据
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时按需执行，已有对象数据则跳过
 * @rules 全部写入在一个事务内完成
 * @dependencies github.com/Nekopanti/crm-project/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"fmt"
	"log/slog"

	"github.com/Nekopanti/crm-project/service/models"
	"gorm.io/gorm"
)

// SeedDemoData 写入演示用的医生名册配置和记录。
// objects 表非空时跳过，保证可重复启动
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Object{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("已存在对象数据，跳过演示数据初始化")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		pageList := &models.PageList{Name: "account_list", Label: "我的医生列表"}
		if err := tx.Create(pageList).Error; err != nil {
			return err
		}

		object := &models.Object{
			Name:       "account",
			Label:      "医生",
			TableName:  "t_accounts",
			PageListID: &pageList.ID,
		}
		if err := tx.Create(object).Error; err != nil {
			return err
		}

		layout := &models.PageLayout{Name: "我的医生详情", PageListID: pageList.ID}
		if err := tx.Create(layout).Error; err != nil {
			return err
		}

		fieldNames := []string{"account_name", "hospital", "department", "phone"}
		fields := make(map[string]*models.ObjectField, len(fieldNames))
		for _, name := range fieldNames {
			field := &models.ObjectField{ObjectID: object.ID, Name: name, Type: "text"}
			if err := tx.Create(field).Error; err != nil {
				return err
			}
			fields[name] = field
		}

		layoutFields := []struct {
			key   string
			name  string
			label string
		}{
			{"account_name", "医生姓名", "Label1"},
			{"hospital", "医院", "Label2"},
			{"department", "科室", "Label3"},
		}
		for _, lf := range layoutFields {
			field := &models.PageLayoutField{
				Name:          lf.name,
				Label:         lf.label,
				PageLayoutID:  layout.ID,
				ObjectFieldID: fields[lf.key].ID,
				Type:          "text",
			}
			if err := tx.Create(field).Error; err != nil {
				return err
			}
		}

		for _, key := range []string{"account_name", "hospital", "department"} {
			field := &models.PageListField{
				Name:          key,
				PageListID:    pageList.ID,
				ObjectFieldID: fields[key].ID,
				Type:          "text",
			}
			if err := tx.Create(field).Error; err != nil {
				return err
			}
		}

		for i := 1; i <= 20; i++ {
			record := &models.Account{
				ObjectID: object.ID,
				Data: models.JSONB{
					"account_name": fmt.Sprintf("Dr. test%d", i),
					"hospital":     fmt.Sprintf("test Hospital%d", i),
					"department":   fmt.Sprintf("xxxxxtest%d", i),
					"phone":        fmt.Sprintf("1234567890xxx%d", i),
				},
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		slog.Info("演示数据初始化完成", "object_id", object.ID, "page_list_id", pageList.ID)
		return nil
	})
}
