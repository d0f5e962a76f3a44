/*
 * @module service/cleanup/orphan_sweep_service_test
 * @description 孤儿清理服务单元测试
 * @architecture 测试层 - 单元测试
 */

package cleanup

import (
	"context"
	"testing"

	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSweep_CleanDatabase 干净库上清理结果为零
func TestSweep_CleanDatabase(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	factory.CreateDoctorRoster()

	service := NewOrphanSweepService(tdb.DB, "")
	result, err := service.Sweep(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.ObjectFields)
	assert.Zero(t, result.PageListFields)
	assert.Zero(t, result.PageLayouts)
	assert.Zero(t, result.PageLayoutFields)
}

// TestSweep_DeletedObject 对象被直接标删后，整条依赖链在一次清理内补删
func TestSweep_DeletedObject(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	// 绕过服务层直接标删对象，模拟级联失败留下的悬挂依赖
	require.NoError(t, tdb.DB.Model(&models.Object{}).
		Where("id = ?", roster.Object.ID).
		Update("deleted", models.FlagDeleted).Error)

	service := NewOrphanSweepService(tdb.DB, "")
	result, err := service.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.ObjectFields)
	assert.Equal(t, int64(3), result.PageListFields)
	assert.Equal(t, int64(3), result.PageLayoutFields)
	assert.Zero(t, result.PageLayouts, "列表视图仍存活，布局不应被清理")

	var active int64
	require.NoError(t, tdb.DB.Model(&models.ObjectField{}).
		Where("deleted = ?", models.FlagActive).Count(&active).Error)
	assert.Zero(t, active)
}

// TestSweep_DeletedPageList 列表视图被直接标删后补删列和布局
func TestSweep_DeletedPageList(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	require.NoError(t, tdb.DB.Model(&models.PageList{}).
		Where("id = ?", roster.PageList.ID).
		Update("deleted", models.FlagDeleted).Error)

	service := NewOrphanSweepService(tdb.DB, "")
	result, err := service.Sweep(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.ObjectFields, "对象存活，字段不应被清理")
	assert.Equal(t, int64(3), result.PageListFields)
	assert.Equal(t, int64(1), result.PageLayouts)
	assert.Equal(t, int64(3), result.PageLayoutFields)
}

// TestSweep_Idempotent 第二次清理没有新增工作量
func TestSweep_Idempotent(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	roster := factory.CreateDoctorRoster()

	require.NoError(t, tdb.DB.Model(&models.PageList{}).
		Where("id = ?", roster.PageList.ID).
		Update("deleted", models.FlagDeleted).Error)

	service := NewOrphanSweepService(tdb.DB, "")
	_, err := service.Sweep(context.Background())
	require.NoError(t, err)

	result, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.PageListFields)
	assert.Zero(t, result.PageLayouts)
	assert.Zero(t, result.PageLayoutFields)
}

// TestStartStop 定时器可重复启停
func TestStartStop(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	service := NewOrphanSweepService(tdb.DB, DefaultSweepCron)
	require.NoError(t, service.Start())
	require.NoError(t, service.Start(), "重复启动应为幂等")
	service.Stop()
	service.Stop()
}

// TestStart_AcceptsBothCronFormats 5字段和6字段表达式都能启动
func TestStart_AcceptsBothCronFormats(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	cases := []struct {
		name string
		spec string
	}{
		{"标准5字段", "0 * * * *"},
		{"带秒6字段", "0 0 * * * *"},
		{"描述符", "@hourly"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewOrphanSweepService(tdb.DB, tc.spec)
			require.NoError(t, service.Start())
			service.Stop()
		})
	}
}
