/*
 * @module api/controllers/page_layout_controller
 * @description 详情布局与布局字段API控制器
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

// PageLayoutController 详情布局控制器
type PageLayoutController struct {
	service *metadata.Service
}

// NewPageLayoutController 创建详情布局控制器实例
func NewPageLayoutController(service *metadata.Service) *PageLayoutController {
	return &PageLayoutController{service: service}
}

// CreatePageLayout 创建详情布局
// @Summary 创建详情布局
// @Tags 元数据
// @Accept json
// @Produce json
// @Param layout body models.PageLayout true "布局信息"
// @Success 201 {object} APIResponse{data=models.PageLayout}
// @Failure 400 {object} APIResponse
// @Router /page-layouts [post]
func (c *PageLayoutController) CreatePageLayout(w http.ResponseWriter, r *http.Request) {
	var req models.PageLayout
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreatePageLayout(&req); err != nil {
		renderMetadataError(w, r, err, "详情布局不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// GetPageLayout 获取详情布局
// @Summary 获取详情布局
// @Tags 元数据
// @Produce json
// @Param id path string true "布局ID"
// @Success 200 {object} APIResponse{data=models.PageLayout}
// @Failure 404 {object} APIResponse
// @Router /page-layouts/{id} [get]
func (c *PageLayoutController) GetPageLayout(w http.ResponseWriter, r *http.Request) {
	layout, err := c.service.GetPageLayout(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "详情布局不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", layout))
}

// GetPageLayouts 获取详情布局列表
// @Summary 获取详情布局列表
// @Tags 元数据
// @Produce json
// @Param page_list_id query string false "按所属列表视图过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.PageLayout}
// @Router /page-layouts [get]
func (c *PageLayoutController) GetPageLayouts(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	layouts, total, err := c.service.GetPageLayouts(r.URL.Query().Get("page_list_id"), page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", layouts, total, page, size))
}

// UpdatePageLayout 部分更新详情布局
// @Summary 更新详情布局
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "布局ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /page-layouts/{id} [put]
func (c *PageLayoutController) UpdatePageLayout(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdatePageLayout(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "详情布局不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeletePageLayout 删除详情布局（级联布局字段）
// @Summary 删除详情布局
// @Tags 元数据
// @Produce json
// @Param id path string true "布局ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /page-layouts/{id} [delete]
func (c *PageLayoutController) DeletePageLayout(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeletePageLayout(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "详情布局不存在")
		return
	}
	render.NoContent(w, r)
}

// === PageLayoutField ===

// CreatePageLayoutField 创建布局字段
// @Summary 创建布局字段
// @Tags 元数据
// @Accept json
// @Produce json
// @Param field body models.PageLayoutField true "布局字段信息"
// @Success 201 {object} APIResponse{data=models.PageLayoutField}
// @Failure 400 {object} APIResponse
// @Router /page-layout-fields [post]
func (c *PageLayoutController) CreatePageLayoutField(w http.ResponseWriter, r *http.Request) {
	var req models.PageLayoutField
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.CreatePageLayoutField(&req); err != nil {
		renderMetadataError(w, r, err, "布局字段不存在")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", &req))
}

// GetPageLayoutField 获取布局字段详情
// @Summary 获取布局字段详情
// @Tags 元数据
// @Produce json
// @Param id path string true "布局字段ID"
// @Success 200 {object} APIResponse{data=models.PageLayoutField}
// @Failure 404 {object} APIResponse
// @Router /page-layout-fields/{id} [get]
func (c *PageLayoutController) GetPageLayoutField(w http.ResponseWriter, r *http.Request) {
	field, err := c.service.GetPageLayoutField(chi.URLParam(r, "id"))
	if err != nil {
		renderMetadataError(w, r, err, "布局字段不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", field))
}

// GetPageLayoutFields 获取布局字段列表
// @Summary 获取布局字段列表
// @Tags 元数据
// @Produce json
// @Param page_layout_id query string false "按所属布局过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.PageLayoutField}
// @Router /page-layout-fields [get]
func (c *PageLayoutController) GetPageLayoutFields(w http.ResponseWriter, r *http.Request) {
	page, size := parsePage(r)
	fields, total, err := c.service.GetPageLayoutFields(r.URL.Query().Get("page_layout_id"), page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}
	render.JSON(w, r, PageResponse("查询成功", fields, total, page, size))
}

// UpdatePageLayoutField 部分更新布局字段
// @Summary 更新布局字段
// @Tags 元数据
// @Accept json
// @Produce json
// @Param id path string true "布局字段ID"
// @Param updates body object true "更新字段集"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /page-layout-fields/{id} [put]
func (c *PageLayoutController) UpdatePageLayoutField(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if err := c.service.UpdatePageLayoutField(chi.URLParam(r, "id"), updates); err != nil {
		renderMetadataError(w, r, err, "布局字段不存在")
		return
	}
	render.JSON(w, r, SuccessResponse("更新成功", nil))
}

// DeletePageLayoutField 删除布局字段
// @Summary 删除布局字段
// @Tags 元数据
// @Produce json
// @Param id path string true "布局字段ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /page-layout-fields/{id} [delete]
func (c *PageLayoutController) DeletePageLayoutField(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeletePageLayoutField(chi.URLParam(r, "id")); err != nil {
		renderMetadataError(w, r, err, "布局字段不存在")
		return
	}
	render.NoContent(w, r)
}
