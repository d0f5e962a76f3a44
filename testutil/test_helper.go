/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nekopanti/crm-project/service/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.Object{},
		&models.ObjectField{},
		&models.PageList{},
		&models.PageListField{},
		&models.PageLayout{},
		&models.PageLayoutField{},
		&models.Account{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"objects",
		"object_fields",
		"page_lists",
		"page_list_fields",
		"page_layouts",
		"page_layout_fields",
		"t_account",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// ObjectOption 对象选项函数类型
type ObjectOption func(*models.Object)

// CreateObject 创建测试对象
func (f *TestDataFactory) CreateObject(opts ...ObjectOption) *models.Object {
	obj := &models.Object{
		ID:        models.NewID(),
		Name:      "account",
		Label:     "医生",
		TableName: "t_accounts",
		Deleted:   models.FlagActive,
	}

	for _, opt := range opts {
		opt(obj)
	}

	if err := f.DB.Create(obj).Error; err != nil {
		panic(fmt.Sprintf("failed to create test object: %v", err))
	}

	return obj
}

// WithObjectPageList 绑定对象的显式列表视图
func WithObjectPageList(pageListID string) ObjectOption {
	return func(o *models.Object) {
		o.PageListID = &pageListID
	}
}

// ObjectFieldOption 对象字段选项函数类型
type ObjectFieldOption func(*models.ObjectField)

// CreateObjectField 创建测试对象字段
func (f *TestDataFactory) CreateObjectField(objectID, name string, opts ...ObjectFieldOption) *models.ObjectField {
	field := &models.ObjectField{
		ID:       models.NewID(),
		ObjectID: objectID,
		Name:     name,
		Type:     "string",
		Deleted:  models.FlagActive,
	}

	for _, opt := range opts {
		opt(field)
	}

	if err := f.DB.Create(field).Error; err != nil {
		panic(fmt.Sprintf("failed to create test object field: %v", err))
	}

	return field
}

// PageListOption 列表视图选项函数类型
type PageListOption func(*models.PageList)

// CreatePageList 创建测试列表视图
func (f *TestDataFactory) CreatePageList(opts ...PageListOption) *models.PageList {
	pl := &models.PageList{
		ID:      models.NewID(),
		Name:    "account_list",
		Label:   "我的医生列表",
		Deleted: models.FlagActive,
	}

	for _, opt := range opts {
		opt(pl)
	}

	if err := f.DB.Create(pl).Error; err != nil {
		panic(fmt.Sprintf("failed to create test page list: %v", err))
	}

	return pl
}

// PageListFieldOption 列表列选项函数类型
type PageListFieldOption func(*models.PageListField)

// CreatePageListField 创建测试列表列
func (f *TestDataFactory) CreatePageListField(pageListID, objectFieldID, label string, opts ...PageListFieldOption) *models.PageListField {
	field := &models.PageListField{
		ID:            models.NewID(),
		Name:          label,
		PageListID:    pageListID,
		ObjectFieldID: objectFieldID,
		Hidden:        models.FlagActive,
		Type:          "string",
		Deleted:       models.FlagActive,
	}

	for _, opt := range opts {
		opt(field)
	}

	if err := f.DB.Create(field).Error; err != nil {
		panic(fmt.Sprintf("failed to create test page list field: %v", err))
	}

	return field
}

// WithHidden 设置列表列的隐藏标志（"0" 可见 / "1" 隐藏）
func WithHidden(hidden string) PageListFieldOption {
	return func(plf *models.PageListField) {
		plf.Hidden = hidden
	}
}

// PageLayoutOption 详情布局选项函数类型
type PageLayoutOption func(*models.PageLayout)

// CreatePageLayout 创建测试详情布局
func (f *TestDataFactory) CreatePageLayout(pageListID string, opts ...PageLayoutOption) *models.PageLayout {
	layout := &models.PageLayout{
		ID:         models.NewID(),
		Name:       "我的医生详情",
		PageListID: pageListID,
		Deleted:    models.FlagActive,
	}

	for _, opt := range opts {
		opt(layout)
	}

	if err := f.DB.Create(layout).Error; err != nil {
		panic(fmt.Sprintf("failed to create test page layout: %v", err))
	}

	return layout
}

// PageLayoutFieldOption 布局字段选项函数类型
type PageLayoutFieldOption func(*models.PageLayoutField)

// CreatePageLayoutField 创建测试布局字段
func (f *TestDataFactory) CreatePageLayoutField(pageLayoutID, objectFieldID, name, label string, opts ...PageLayoutFieldOption) *models.PageLayoutField {
	field := &models.PageLayoutField{
		ID:            models.NewID(),
		Name:          name,
		Label:         label,
		PageLayoutID:  pageLayoutID,
		ObjectFieldID: objectFieldID,
		Type:          "string",
		Deleted:       models.FlagActive,
	}

	for _, opt := range opts {
		opt(field)
	}

	if err := f.DB.Create(field).Error; err != nil {
		panic(fmt.Sprintf("failed to create test page layout field: %v", err))
	}

	return field
}

// AccountOption 记录选项函数类型
type AccountOption func(*models.Account)

// CreateAccount 创建测试记录
func (f *TestDataFactory) CreateAccount(objectID string, data models.JSONB, opts ...AccountOption) *models.Account {
	account := &models.Account{
		ID:       models.NewID(),
		ObjectID: objectID,
		Data:     data,
		Deleted:  models.FlagActive,
	}

	for _, opt := range opts {
		opt(account)
	}

	if err := f.DB.Create(account).Error; err != nil {
		panic(fmt.Sprintf("failed to create test account: %v", err))
	}

	return account
}

// DoctorRoster 一套完整的医生名册元数据，供投影相关测试复用
type DoctorRoster struct {
	Object     *models.Object
	PageList   *models.PageList
	PageLayout *models.PageLayout
	Fields     map[string]*models.ObjectField
}

// CreateDoctorRoster 创建医生名册的对象、字段、列表视图和详情布局
func (f *TestDataFactory) CreateDoctorRoster() *DoctorRoster {
	pl := f.CreatePageList()
	obj := f.CreateObject(WithObjectPageList(pl.ID))

	fields := map[string]*models.ObjectField{
		"account_name": f.CreateObjectField(obj.ID, "account_name"),
		"hospital":     f.CreateObjectField(obj.ID, "hospital"),
		"department":   f.CreateObjectField(obj.ID, "department"),
		"phone":        f.CreateObjectField(obj.ID, "phone"),
	}

	f.CreatePageListField(pl.ID, fields["account_name"].ID, "医生姓名")
	f.CreatePageListField(pl.ID, fields["hospital"].ID, "医院")
	f.CreatePageListField(pl.ID, fields["department"].ID, "科室")

	layout := f.CreatePageLayout(pl.ID)
	f.CreatePageLayoutField(layout.ID, fields["account_name"].ID, "医生姓名", "Label1")
	f.CreatePageLayoutField(layout.ID, fields["hospital"].ID, "医院", "Label2")
	f.CreatePageLayoutField(layout.ID, fields["department"].ID, "科室", "Label3")

	return &DoctorRoster{
		Object:     obj,
		PageList:   pl,
		PageLayout: layout,
		Fields:     fields,
	}
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
