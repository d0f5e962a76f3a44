/*
 * @module api/controllers/object_controller
 * @description 对象与对象字段API控制器，含对象+字段的组合事务接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，参数验证
 * @dependencies github.com/Nekopanti/crm-project/service/metadata, github.com/go-chi/render
 * @refs service/metadata
 */

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Nekopanti/crm-project/service/metadata"
	"github.com/Nekopanti/crm-project/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// ObjectController 对象控制器
type ObjectController struct {
	service *metadata.Service
}

// NewObjectController 创建对象控制器实例
func NewObjectController(service *metadata.Service) *ObjectController {
	return &ObjectController{service: service}
}

// parsePage 解析分页参数
func parsePage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// renderMetadataError 元数据服务错误到响应的统一转换
func renderMetadataError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, NotFoundResponse(notFoundMsg, nil))
		return
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, BadRequestResponse(err.Error(), nil))
}

// CreateObjectRequest 组合创建请求：一个对象及其字段
type CreateObjectRequest struct {
	Object models.Object         `json:"object"`
	Fields []*models.ObjectField `json:"fields"`
}

// UpdateObjectRequest 组合更新请求
type UpdateObjectRequest struct {
	Object map[string]interface{} `json:"object"`
	Fields []struct {
		ID      string                 `json:"id"`
		Updates map[string]interface{} `json:"updates"`
	} `json:"fields"`
}

// CreateObject 创建对象
// @Summary 创建对象
// @Tags 元数据
// @Accept json
// @Produce json
// @Param object body models.Object true "对象信息"
// @Success 201 {object} APIResponse{data=models.Object}
// @Failure 400 {object} APIResponse
// @Router /objects [post]
func (c *ObjectController) CreateObject(w http.ResponseWriter, r *http.Request) {
	var req models.Object
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreateObject(&req); err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// CreateObjectComposite 单事务创建对象及其字段
// @Summary 创建对象及其字段
// @Description 对象和字段在一个事务内写入，任一字段校验失败整体回滚
// @Tags 元数据
// @Accept json
// @Produce json
// @Param object body CreateObjectRequest true "对象及字段"
// @Success 201 {object} APIResponse{data=models.Object}
// @Failure 400 {object} APIResponse
// @Router /objects/composite [post]
func (c *ObjectController) CreateObjectComposite(w http.ResponseWriter, r *http.Request) {
	var req CreateObjectRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreateObjectWithFields(&req.Object, req.Fields); err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req.Object))
}

// GetObject 获取对象详情
// @Summary 获取对象详情
// @Tags 元数据
// @Produce json
// @Param id path string true "对象ID"
// @Success 200 {object} APIResponse{data=models.Object}
// @Failure 404 {object} APIResponse
// @Router /objects/{id} [get]
func (c *ObjectController) GetObject(w http.ResponseWriter, r *http.Request) {
	obj, err := c.service.GetObject(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", obj))
}

// GetObjects 获取对象列表
// @Summary 获取对象列表
// @Tags 元数据
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.Object}
// @Router /objects [get]
func (c *ObjectController) GetObjects(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	objects, total, err := c.service.GetObjects(page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", objects, total, page, size))
}

// UpdateObject 部分更新对象
// @Summary 更新对象
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "对象ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /objects/{id} [put]
func (c *ObjectController) UpdateObject(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdateObject(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// UpdateObjectComposite 单事务更新对象及其字段
// @Summary 更新对象及其字段
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "对象ID"
// @Param body body UpdateObjectRequest true "对象及字段的部分更新"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /objects/{id}/composite [put]
func (c *ObjectController) UpdateObjectComposite(w http.ResponseWriter, r *http.Request) {
	var req UpdateObjectRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	fieldUpdates := make([]metadata.FieldUpdate, 0, len(req.Fields))
	for _, f := range req.Fields {
		fieldUpdates = append(fieldUpdates, metadata.FieldUpdate{ID: f.ID, Updates: f.Updates})
	}
	if err := c.service.UpdateObjectWithFields(chi.URLParam(r, "id"), req.Object, fieldUpdates); err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeleteObject 删除对象（级联）
// @Summary 删除对象
// @Description 软删除对象并级联其字段及引用这些字段的列表列/详情字段
// @Tags 元数据
// @Produce json
// @Param id path string true "对象ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /objects/{id} [delete]
func (c *ObjectController) DeleteObject(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteObject(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "对象不存在")
		return
	}
	render.NoContent(w, r)
}

// === ObjectField ===

// CreateObjectField 创建对象字段
// @Summary 创建对象字段
// @Tags 元数据
// @Accept json
// @Produce json
// @Param field body models.ObjectField true "字段信息"
// @Success 201 {object} APIResponse{data=models.ObjectField}
// @Failure 400 {object} APIResponse
// @Router /object-fields [post]
func (c *ObjectController) CreateObjectField(w http.ResponseWriter, r *http.Request) {
	var req models.ObjectField
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreateObjectField(&req); err != nil {
		renderMetadataError(w, r, err, "对象字段不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// GetObjectField 获取对象字段详情
// @Summary 获取对象字段详情
// @Tags 元数据
// @Produce json
// @Param id path string true "字段ID"
// @Success 200 {object} APIResponse{data=models.ObjectField}
// @Failure 404 {object} APIResponse
// @Router /object-fields/{id} [get]
func (c *ObjectController) GetObjectField(w http.ResponseWriter, r *http.Request) {
	field, err := c.service.GetObjectField(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "对象字段不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", field))
}

// GetObjectFields 获取对象字段列表
// @Summary 获取对象字段列表
// @Tags 元数据
// @Produce json
// @Param object_id query string false "按所属对象过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.ObjectField}
// @Router /object-fields [get]
func (c *ObjectController) GetObjectFields(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	fields, total, err := c.service.GetObjectFields(r.URL.Query().Get("object_id"), page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", fields, total, page, size))
}

// UpdateObjectField 部分更新对象字段
// @Summary 更新对象字段
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "字段ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /object-fields/{id} [put]
func (c *ObjectController) UpdateObjectField(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdateObjectField(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "对象字段不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeleteObjectField 删除对象字段（级联引用）
// @Summary 删除对象字段
// @Tags 元数据
// @Produce json
// @Param id path string true "字段ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /object-fields/{id} [delete]
func (c *ObjectController) DeleteObjectField(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteObjectField(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "对象字段不存在")
		return
	}
	render.NoContent(w, r)
}
