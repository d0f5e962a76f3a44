/*
 * @module service/account/service_test
 * @description 业务记录服务单元测试
 * @architecture 测试层 - 单元测试
 */

package account

import (
	"testing"

	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/service/projection"
	"github.com/Nekopanti/crm-project/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accountTestEnv struct {
	tdb     *testutil.TestDB
	factory *testutil.TestDataFactory
	roster  *testutil.DoctorRoster
	service *Service
}

func setupAccountTest(t *testing.T) *accountTestEnv {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	factory := testutil.NewTestDataFactory(tdb.DB)
	return &accountTestEnv{
		tdb:     tdb,
		factory: factory,
		roster:  factory.CreateDoctorRoster(),
		service: NewService(tdb.DB),
	}
}

// TestListAccounts_Projection 列表输出按展示标签改名并追加id
func TestListAccounts_Projection(t *testing.T) {
	env := setupAccountTest(t)
	record := env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{
		"account_name": "Dr. Lee",
		"hospital":     "市一医院",
		"department":   "外科",
		"phone":        "1234567890",
	})

	rows, total, err := env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	keys := rows[0].Keys()
	assert.ElementsMatch(t, []string{"医生姓名", "医院", "科室", "id"}, keys)
	assert.Equal(t, "id", keys[len(keys)-1], "id 固定追加在末尾")
	name, _ := rows[0].Get("医生姓名")
	assert.Equal(t, "Dr. Lee", name)
	id, _ := rows[0].Get("id")
	assert.Equal(t, record.ID, id)
	_, hasPhone := rows[0].Get("phone")
	assert.False(t, hasPhone, "列表视图未配置的字段不应出现")
}

// TestListAccounts_MissingValue 空数据记录的映射键回填占位值
func TestListAccounts_MissingValue(t *testing.T) {
	env := setupAccountTest(t)
	env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{})

	rows, _, err := env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	for _, label := range []string{"医生姓名", "医院", "科室"} {
		v, ok := rows[0].Get(label)
		require.True(t, ok)
		assert.Equal(t, projection.MissingValue, v)
	}
}

// TestListAccounts_Sort 白名单排序升降序
func TestListAccounts_Sort(t *testing.T) {
	env := setupAccountTest(t)
	for _, name := range []string{"Dr. B", "Dr. C", "Dr. A"} {
		env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": name})
	}

	names := func(rows []*projection.LabeledRecord) []string {
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			v, _ := row.Get("医生姓名")
			out = append(out, v.(string))
		}
		return out
	}

	rows, _, err := env.service.ListAccounts(ListQuery{
		ObjectID:  env.roster.Object.ID,
		SortField: "account_name",
		SortOrder: "asc",
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. A", "Dr. B", "Dr. C"}, names(rows))

	rows, _, err = env.service.ListAccounts(ListQuery{
		ObjectID:  env.roster.Object.ID,
		SortField: "account_name",
		SortOrder: "desc",
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. C", "Dr. B", "Dr. A"}, names(rows))
}

// TestListAccounts_SortByDepartmentDesc 按 department 降序时取值非递增
func TestListAccounts_SortByDepartmentDesc(t *testing.T) {
	env := setupAccountTest(t)
	for i, dept := range []string{"外科", "内科", "儿科", "骨科"} {
		env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{
			"account_name": "Dr. " + string(rune('A'+i)),
			"department":   dept,
		})
	}

	rows, _, err := env.service.ListAccounts(ListQuery{
		ObjectID:  env.roster.Object.ID,
		SortField: "department",
		SortOrder: "desc",
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	prev := ""
	for i, row := range rows {
		v, _ := row.Get("科室")
		dept := v.(string)
		if i > 0 {
			assert.LessOrEqual(t, dept, prev, "降序排序下取值应非递增")
		}
		prev = dept
	}
}

// TestListAccounts_SortFallback 非法排序参数静默回退 account_name 升序
func TestListAccounts_SortFallback(t *testing.T) {
	env := setupAccountTest(t)
	for _, name := range []string{"Dr. B", "Dr. A"} {
		env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": name})
	}

	rows, _, err := env.service.ListAccounts(ListQuery{
		ObjectID:  env.roster.Object.ID,
		SortField: "phone",
		SortOrder: "bogus",
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	first, _ := rows[0].Get("医生姓名")
	assert.Equal(t, "Dr. A", first)
}

// TestListAccounts_Search account_name 前缀匹配
func TestListAccounts_Search(t *testing.T) {
	env := setupAccountTest(t)
	env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": "Dr. Lee"})
	env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": "Dr. Liu"})
	env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": "Prof. Lee"})

	rows, total, err := env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Search:   "Dr. L",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	// 前缀匹配，不是子串匹配
	rows, total, err = env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Search:   "Lee",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, rows, 0)
}

// TestListAccounts_Pagination 分页与总数
func TestListAccounts_Pagination(t *testing.T) {
	env := setupAccountTest(t)
	for i := 0; i < 5; i++ {
		env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{
			"account_name": string(rune('A' + i)),
		})
	}

	rows, total, err := env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	name, _ := rows[0].Get("医生姓名")
	assert.Equal(t, "C", name)
}

// TestListAccounts_UnknownObject 未知对象返回对象不存在
func TestListAccounts_UnknownObject(t *testing.T) {
	env := setupAccountTest(t)

	_, _, err := env.service.ListAccounts(ListQuery{ObjectID: "missing", Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, projection.ErrObjectNotFound)
	assert.True(t, IsNotFound(err))
}

// TestGetAccountDetail 详情投影
func TestGetAccountDetail(t *testing.T) {
	env := setupAccountTest(t)
	record := env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{
		"account_name": "Dr. Lee",
		"hospital":     "市一医院",
	})

	detail, err := env.service.GetAccountDetail(record.ID, env.roster.PageList.ID)
	require.NoError(t, err)

	assert.Equal(t, env.roster.PageLayout.ID, detail.Layout.ID)
	require.Len(t, detail.Layout.Fields, 3, "布局元数据应随带其字段配置")
	for _, f := range detail.Layout.Fields {
		assert.Equal(t, detail.Layout.ID, f.PageLayoutID)
	}

	name, _ := detail.PageLayout.Get("医生姓名")
	assert.Equal(t, "Dr. Lee", name)
	dept, _ := detail.PageLayout.Get("科室")
	assert.Equal(t, "", dept, "布局文档缺失键回填空串")

	assert.Equal(t, "Dr. Lee", detail.FilteredData["account_name"])
	assert.Equal(t, "市一医院", detail.AccountData["hospital"])
}

// TestGetAccountDetail_NoLayout 列表视图没有布局
func TestGetAccountDetail_NoLayout(t *testing.T) {
	env := setupAccountTest(t)
	record := env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{})
	bareList := env.factory.CreatePageList()

	_, err := env.service.GetAccountDetail(record.ID, bareList.ID)
	assert.ErrorIs(t, err, projection.ErrPageLayoutNotFound)
	assert.True(t, IsNotFound(err))
}

// TestCreateAccount 所属对象必须存在
func TestCreateAccount(t *testing.T) {
	env := setupAccountTest(t)

	record, err := env.service.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": "Dr. New"})
	require.NoError(t, err)
	assert.Len(t, record.ID, 32, "新记录应生成32位ID")

	_, err = env.service.CreateAccount("missing", models.JSONB{})
	assert.ErrorIs(t, err, projection.ErrObjectNotFound)
}

// TestUpdateAccountData 整体替换data文档
func TestUpdateAccountData(t *testing.T) {
	env := setupAccountTest(t)
	record := env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{
		"account_name": "Dr. Lee",
		"hospital":     "市一医院",
	})

	updated, err := env.service.UpdateAccountData(record.ID, models.JSONB{"account_name": "Dr. Li"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Li", updated.Data["account_name"])

	stored, err := env.service.GetAccount(record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Li", stored.Data["account_name"])
	_, hasHospital := stored.Data["hospital"]
	assert.False(t, hasHospital, "替换语义下旧键不应保留")
}

// TestDeleteAccount 软删除后列表不可见，重复删除报不存在
func TestDeleteAccount(t *testing.T) {
	env := setupAccountTest(t)
	record := env.factory.CreateAccount(env.roster.Object.ID, models.JSONB{"account_name": "Dr. Lee"})

	require.NoError(t, env.service.DeleteAccount(record.ID))

	_, total, err := env.service.ListAccounts(ListQuery{
		ObjectID: env.roster.Object.ID,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	err = env.service.DeleteAccount(record.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 行仍在表里，只是标志位翻转
	var raw models.Account
	require.NoError(t, env.tdb.DB.Where("id = ?", record.ID).First(&raw).Error)
	assert.Equal(t, models.FlagDeleted, raw.Deleted)
}
