/*
 * @module service/projection/resolver_test
 * @description 字段映射解析器单元测试
 * @architecture 测试层 - 单元测试
 */

package projection

import (
	"testing"

	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveFieldMap_ExplicitPageList 显式关联的列表视图优先
func TestResolveFieldMap_ExplicitPageList(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	resolver := NewResolver(tdb.DB)
	fm, err := resolver.ResolveFieldMap(roster.Object.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"account_name", "hospital", "department"}, fm.Keys())

	label, ok := fm.Label("account_name")
	require.True(t, ok)
	assert.Equal(t, "医生姓名", label)
}

// TestResolveFieldMap_InferredPageList 未配置显式关联时按字段引用推断
func TestResolveFieldMap_InferredPageList(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)

	obj := factory.CreateObject()
	field := factory.CreateObjectField(obj.ID, "account_name")
	pl := factory.CreatePageList()
	factory.CreatePageListField(pl.ID, field.ID, "姓名")

	resolver := NewResolver(tdb.DB)
	fm, err := resolver.ResolveFieldMap(obj.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"account_name"}, fm.Keys())
	label, _ := fm.Label("account_name")
	assert.Equal(t, "姓名", label, "展示标签应取列表列的name")
}

// TestResolveFieldMap_ExplicitBeatsInference 显式关联优先于字段引用推断
func TestResolveFieldMap_ExplicitBeatsInference(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)

	obj := factory.CreateObject()
	field := factory.CreateObjectField(obj.ID, "account_name")

	// 两个列表都引用该字段，推断无法区分，显式关联必须胜出
	other := factory.CreatePageList()
	factory.CreatePageListField(other.ID, field.ID, "推断标签")
	explicit := factory.CreatePageList()
	factory.CreatePageListField(explicit.ID, field.ID, "显式标签")

	require.NoError(t, tdb.DB.Model(&models.Object{}).
		Where("id = ?", obj.ID).Update("page_list_id", explicit.ID).Error)

	resolver := NewResolver(tdb.DB)
	fm, err := resolver.ResolveFieldMap(obj.ID)
	require.NoError(t, err)

	label, _ := fm.Label("account_name")
	assert.Equal(t, "显式标签", label)
}

// TestResolveFieldMap_ObjectNotFound 对象不存在
func TestResolveFieldMap_ObjectNotFound(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	resolver := NewResolver(tdb.DB)
	_, err := resolver.ResolveFieldMap("missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

// TestResolveFieldMap_NoPageList 对象没有任何列表视图
func TestResolveFieldMap_NoPageList(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)

	obj := factory.CreateObject()
	factory.CreateObjectField(obj.ID, "account_name")

	resolver := NewResolver(tdb.DB)
	_, err := resolver.ResolveFieldMap(obj.ID)
	assert.ErrorIs(t, err, ErrNoPageList)
}

// TestResolveFieldMap_NoVisibleFields 全部列隐藏或删除时报无可见字段
func TestResolveFieldMap_NoVisibleFields(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)

	pl := factory.CreatePageList()
	obj := factory.CreateObject(testutil.WithObjectPageList(pl.ID))
	field := factory.CreateObjectField(obj.ID, "account_name")
	factory.CreatePageListField(pl.ID, field.ID, "姓名", testutil.WithHidden(models.FlagDeleted))

	resolver := NewResolver(tdb.DB)
	_, err := resolver.ResolveFieldMap(obj.ID)
	assert.ErrorIs(t, err, ErrNoVisibleFields)
}

// TestResolveFieldMap_SkipsDeletedColumns 软删除的列不进入映射
func TestResolveFieldMap_SkipsDeletedColumns(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	err := tdb.DB.Model(&models.PageListField{}).
		Where("page_list_id = ? AND name = ?", roster.PageList.ID, "医院").
		Update("deleted", models.FlagDeleted).Error
	require.NoError(t, err)

	resolver := NewResolver(tdb.DB)
	fm, err := resolver.ResolveFieldMap(roster.Object.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"account_name", "department"}, fm.Keys())
}

// TestResolveFieldMap_DeletedExplicitFallsBack 显式关联指向已删除列表时退回推断
func TestResolveFieldMap_DeletedExplicitFallsBack(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)

	deadList := factory.CreatePageList()
	require.NoError(t, tdb.DB.Model(&models.PageList{}).
		Where("id = ?", deadList.ID).
		Update("deleted", models.FlagDeleted).Error)

	obj := factory.CreateObject(testutil.WithObjectPageList(deadList.ID))
	field := factory.CreateObjectField(obj.ID, "account_name")
	liveList := factory.CreatePageList()
	factory.CreatePageListField(liveList.ID, field.ID, "姓名")

	resolver := NewResolver(tdb.DB)
	fm, err := resolver.ResolveFieldMap(obj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"account_name"}, fm.Keys())
}

// TestResolveLayoutMap 详情布局字段映射
func TestResolveLayoutMap(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	resolver := NewResolver(tdb.DB)
	layout, fm, err := resolver.ResolveLayoutMap(roster.PageList.ID)
	require.NoError(t, err)

	assert.Equal(t, roster.PageLayout.ID, layout.ID)
	assert.ElementsMatch(t, []string{"account_name", "hospital", "department"}, fm.Keys())
	label, _ := fm.Label("department")
	assert.Equal(t, "科室", label, "布局字段映射取布局字段的name")

	// 布局元数据随带其存活字段配置
	require.Len(t, layout.Fields, 3)
	names := make([]string, 0, len(layout.Fields))
	for _, f := range layout.Fields {
		assert.Equal(t, layout.ID, f.PageLayoutID)
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"医生姓名", "医院", "科室"}, names)
}

// TestResolveLayoutMap_NotFound 列表视图下没有布局
func TestResolveLayoutMap_NotFound(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	pl := factory.CreatePageList()

	resolver := NewResolver(tdb.DB)
	_, _, err := resolver.ResolveLayoutMap(pl.ID)
	assert.ErrorIs(t, err, ErrPageLayoutNotFound)
}
