/*
 * @module api/controllers/page_list_controller
 * @description 列表视图与列表列API控制器，含列表+列+布局的组合事务接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，参数验证
 * @dependencies github.com/Nekopanti/crm-project/service/metadata, github.com/go-chi/render
 * @refs service/metadata
 */

package controllers

import (
	"net/http"

	"github.com/Nekopanti/crm-project/service/metadata"
	"github.com/Nekopanti/crm-project/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// PageListController 列表视图控制器
type PageListController struct {
	service *metadata.Service
}

// NewPageListController 创建列表视图控制器实例
func NewPageListController(service *metadata.Service) *PageListController {
	return &PageListController{service: service}
}

// CreatePageListRequest 组合创建请求：列表视图、列及布局一次性写入
type CreatePageListRequest struct {
	PageList models.PageList         `json:"page_list"`
	Fields   []*models.PageListField `json:"fields"`
	Layouts  []*metadata.LayoutInput `json:"layouts"`
}

// CreatePageList 创建列表视图
// @Summary 创建列表视图
// @Tags 元数据
// @Accept json
// @Produce json
// @Param page_list body models.PageList true "列表视图信息"
// @Success 201 {object} APIResponse{data=models.PageList}
// @Failure 400 {object} APIResponse
// @Router /page-lists [post]
func (c *PageListController) CreatePageList(w http.ResponseWriter, r *http.Request) {
	var req models.PageList
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreatePageList(&req); err != nil {
		renderMetadataError(w, r, err, "列表视图不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// CreatePageListComposite 单事务创建列表视图、列和详情布局
// @Summary 创建列表视图及其列与布局
// @Description 列表视图、列、布局及布局字段在一个事务内写入，任一校验失败整体回滚
// @Tags 元数据
// @Accept json
// @Produce json
// @Param body body CreatePageListRequest true "列表视图组合"
// @Success 201 {object} APIResponse{data=models.PageList}
// @Failure 400 {object} APIResponse
// @Router /page-lists/composite [post]
func (c *PageListController) CreatePageListComposite(w http.ResponseWriter, r *http.Request) {
	var req CreatePageListRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreatePageListGraph(&req.PageList, req.Fields, req.Layouts); err != nil {
		renderMetadataError(w, r, err, "列表视图不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req.PageList))
}

// GetPageList 获取列表视图详情
// @Summary 获取列表视图详情
// @Tags 元数据
// @Produce json
// @Param id path string true "列表视图ID"
// @Success 200 {object} APIResponse{data=models.PageList}
// @Failure 404 {object} APIResponse
// @Router /page-lists/{id} [get]
func (c *PageListController) GetPageList(w http.ResponseWriter, r *http.Request) {
	pl, err := c.service.GetPageList(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "列表视图不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", pl))
}

// GetPageLists 获取列表视图列表
// @Summary 获取列表视图列表
// @Tags 元数据
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.PageList}
// @Router /page-lists [get]
func (c *PageListController) GetPageLists(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	lists, total, err := c.service.GetPageLists(page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", lists, total, page, size))
}

// UpdatePageList 部分更新列表视图
// @Summary 更新列表视图
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "列表视图ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /page-lists/{id} [put]
func (c *PageListController) UpdatePageList(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdatePageList(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "列表视图不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeletePageList 删除列表视图（级联）
// @Summary 删除列表视图
// @Description 软删除列表视图并级联其列、布局及布局字段，同时解除对象上的显式引用
// @Tags 元数据
// @Produce json
// @Param id path string true "列表视图ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /page-lists/{id} [delete]
func (c *PageListController) DeletePageList(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeletePageList(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "列表视图不存在")
		return
	}
	render.NoContent(w, r)
}

// === PageListField ===

// CreatePageListField 创建列表列
// @Summary 创建列表列
// @Tags 元数据
// @Accept json
// @Produce json
// @Param field body models.PageListField true "列表列信息"
// @Success 201 {object} APIResponse{data=models.PageListField}
// @Failure 400 {object} APIResponse
// @Router /page-list-fields [post]
func (c *PageListController) CreatePageListField(w http.ResponseWriter, r *http.Request) {
	var req models.PageListField
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreatePageListField(&req); err != nil {
		renderMetadataError(w, r, err, "列表列不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// GetPageListField 获取列表列详情
// @Summary 获取列表列详情
// @Tags 元数据
// @Produce json
// @Param id path string true "列表列ID"
// @Success 200 {object} APIResponse{data=models.PageListField}
// @Failure 404 {object} APIResponse
// @Router /page-list-fields/{id} [get]
func (c *PageListController) GetPageListField(w http.ResponseWriter, r *http.Request) {
	field, err := c.service.GetPageListField(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "列表列不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", field))
}

// GetPageListFields 获取列表列列表
// @Summary 获取列表列列表
// @Tags 元数据
// @Produce json
// @Param page_list_id query string false "按所属列表视图过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.PageListField}
// @Router /page-list-fields [get]
func (c *PageListController) GetPageListFields(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	fields, total, err := c.service.GetPageListFields(r.URL.Query().Get("page_list_id"), page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", fields, total, page, size))
}

// UpdatePageListField 部分更新列表列
// @Summary 更新列表列
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "列表列ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /page-list-fields/{id} [put]
func (c *PageListController) UpdatePageListField(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdatePageListField(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "列表列不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeletePageListField 删除列表列并回收孤儿字段
// @Summary 删除列表列
// @Description 软删除列表列；其指向的对象字段若不再被任何列引用则一并软删除
// @Tags 元数据
// @Produce json
// @Param id path string true "列表列ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /page-list-fields/{id} [delete]
func (c *PageListController) DeletePageListField(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeletePageListField(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "列表列不存在")
		return
	}
	render.NoContent(w, r)
}
