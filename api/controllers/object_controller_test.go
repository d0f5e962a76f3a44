/*
 * @module api/controllers/object_controller_test
 * @description 对象控制器HTTP层测试：CRUD与组合事务接口
 * @architecture 测试层 - 接口测试
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nekopanti/crm-project/service/metadata"
	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objectAPIEnv struct {
	tdb     *testutil.TestDB
	factory *testutil.TestDataFactory
	service *metadata.Service
	router  *chi.Mux
	http    *testutil.HTTPTestHelper
}

func setupObjectAPI(t *testing.T) *objectAPIEnv {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	service := metadata.NewService(tdb.DB)
	controller := NewObjectController(service)

	router := chi.NewRouter()
	router.Route("/objects", func(r chi.Router) {
		r.Post("/", controller.CreateObject)
		r.Post("/composite", controller.CreateObjectComposite)
		r.Get("/", controller.GetObjects)
		r.Get("/{id}", controller.GetObject)
		r.Put("/{id}", controller.UpdateObject)
		r.Put("/{id}/composite", controller.UpdateObjectComposite)
		r.Delete("/{id}", controller.DeleteObject)
	})
	router.Route("/object-fields", func(r chi.Router) {
		r.Post("/", controller.CreateObjectField)
		r.Get("/", controller.GetObjectFields)
		r.Get("/{id}", controller.GetObjectField)
		r.Put("/{id}", controller.UpdateObjectField)
		r.Delete("/{id}", controller.DeleteObjectField)
	})

	return &objectAPIEnv{
		tdb:     tdb,
		factory: testutil.NewTestDataFactory(tdb.DB),
		service: service,
		router:  router,
		http:    testutil.NewHTTPTestHelper(),
	}
}

func (env *objectAPIEnv) do(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, err := env.http.CreateJSONRequest(method, url, body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// TestCreateObjectComposite 组合创建对象及字段
func TestCreateObjectComposite(t *testing.T) {
	env := setupObjectAPI(t)

	w := env.do(t, http.MethodPost, "/objects/composite", CreateObjectRequest{
		Object: models.Object{Name: "account", Label: "医生"},
		Fields: []*models.ObjectField{
			{Name: "account_name", Type: "text"},
			{Name: "hospital", Type: "text"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Object `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.ID, 32)

	_, total, err := env.service.GetObjectFields(resp.Data.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

// TestCreateObjectComposite_RollsBack 非法字段导致整体回滚并报400
func TestCreateObjectComposite_RollsBack(t *testing.T) {
	env := setupObjectAPI(t)

	w := env.do(t, http.MethodPost, "/objects/composite", CreateObjectRequest{
		Object: models.Object{Name: "account"},
		Fields: []*models.ObjectField{{Name: "", Type: "text"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, total, err := env.service.GetObjects(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

// TestGetObject_NotFound 未知对象报404
func TestGetObject_NotFound(t *testing.T) {
	env := setupObjectAPI(t)

	w := env.do(t, http.MethodGet, "/objects/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "对象不存在", resp.Msg)
}

// TestUpdateObjectComposite 组合更新对象及字段
func TestUpdateObjectComposite(t *testing.T) {
	env := setupObjectAPI(t)
	obj := env.factory.CreateObject()
	field := env.factory.CreateObjectField(obj.ID, "account_name")

	body := map[string]interface{}{
		"object": map[string]interface{}{"label": "客户"},
		"fields": []map[string]interface{}{
			{"id": field.ID, "updates": map[string]interface{}{"type": "text"}},
		},
	}
	w := env.do(t, http.MethodPut, "/objects/"+obj.ID+"/composite", body)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.service.GetObject(obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "客户", stored.Label)

	storedField, err := env.service.GetObjectField(field.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", storedField.Type)
}

// TestDeleteObject_HTTP 删除对象返回204，重复删除404
func TestDeleteObject_HTTP(t *testing.T) {
	env := setupObjectAPI(t)
	obj := env.factory.CreateObject()

	w := env.do(t, http.MethodDelete, "/objects/"+obj.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/objects/"+obj.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetObjects_Pagination 对象分页列表
func TestGetObjects_Pagination(t *testing.T) {
	env := setupObjectAPI(t)
	for i := 0; i < 3; i++ {
		env.factory.CreateObject()
	}

	w := env.do(t, http.MethodGet, "/objects/?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.Size)
}

// TestCreateObjectField_BadReference 引用未知对象报400
func TestCreateObjectField_BadReference(t *testing.T) {
	env := setupObjectAPI(t)

	w := env.do(t, http.MethodPost, "/object-fields/", models.ObjectField{
		ObjectID: "missing",
		Name:     "phone",
		Type:     "text",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "关联的对象不存在", resp.Msg)
}
