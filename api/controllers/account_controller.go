/*
 * @module api/controllers/account_controller
 * @description 业务记录API控制器：带标签的记录列表/详情投影与记录CRUD
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式；校验/缺参/不存在归为4xx，其余统一500并隐藏细节
 * @dependencies github.com/Nekopanti/crm-project/service/account, github.com/go-chi/render
 * @refs service/account, service/projection
 */

package controllers

import (
	"net/http"
	"strconv"

	"github.com/Nekopanti/crm-project/service/account"
	"github.com/Nekopanti/crm-project/service/models"
	"github.com/Nekopanti/crm-project/service/projection"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// AccountController 业务记录控制器
type AccountController struct {
	service *account.Service
}

// NewAccountController 创建业务记录控制器实例
func NewAccountController(service *account.Service) *AccountController {
	return &AccountController{service: service}
}

// CreateAccountRequest 创建记录请求结构
type CreateAccountRequest struct {
	ObjectID string       `json:"object_id"`
	Data     models.JSONB `json:"data"`
}

// ListAccounts 获取带标签的记录列表
// @Summary 获取记录列表
// @Description 按对象解析字段映射后输出带展示标签的记录列表，支持前缀搜索、白名单排序和分页
// @Tags 业务记录
// @Produce json
// @Param object_id query string true "对象ID"
// @Param search query string false "account_name 前缀"
// @Param sort_field query string false "排序字段(account_name/department/hospital)"
// @Param sort_order query string false "排序方向(asc/desc)"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /accounts [get]
func (c *AccountController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	objectID := r.URL.Query().Get("object_id")
	if objectID == "" {
		projectionRequests.WithLabelValues("list", "bad_request").Inc()
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("object_id参数不能为空", nil))
		return
	}

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

	records, total, err := c.service.ListAccounts(account.ListQuery{
		ObjectID:  objectID,
		Search:    r.URL.Query().Get("search"),
		SortField: r.URL.Query().Get("sort_field"),
		SortOrder: r.URL.Query().Get("sort_order"),
		Page:      page,
		PageSize:  size,
	})
	if err != nil {
		c.renderListError(w, r, err)
		return
	}

	projectionRequests.WithLabelValues("list", "ok").Inc()
	render.JSON(w, r, PageResponse("查询成功", records, total, page, size))
}

func (c *AccountController) renderListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == projection.ErrObjectNotFound:
		projectionRequests.WithLabelValues("list", "not_found").Inc()
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, NotFoundResponse("对象不存在", nil))
	case err == projection.ErrNoPageList, err == projection.ErrNoVisibleFields:
		projectionRequests.WithLabelValues("list", "not_found").Inc()
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
	default:
		projectionRequests.WithLabelValues("list", "error").Inc()
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
	}
}

// GetAccountDetail 获取记录详情
// @Summary 获取记录详情
// @Description 按详情布局投影单条记录，返回布局元数据、标签文档、常用字段子集和原始文档
// @Tags 业务记录
// @Produce json
// @Param id path string true "记录ID"
// @Param pagelist_id query string true "列表视图ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /accounts/{id} [get]
func (c *AccountController) GetAccountDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pageListID := r.URL.Query().Get("pagelist_id")
	if pageListID == "" {
		projectionRequests.WithLabelValues("detail", "bad_request").Inc()
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("pagelist_id参数不能为空", nil))
		return
	}

	detail, err := c.service.GetAccountDetail(id, pageListID)
	if err != nil {
		if account.IsNotFound(err) {
			projectionRequests.WithLabelValues("detail", "not_found").Inc()
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, NotFoundResponse("记录或详情布局不存在", nil))
			return
		}
		projectionRequests.WithLabelValues("detail", "error").Inc()
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}

	projectionRequests.WithLabelValues("detail", "ok").Inc()
	render.JSON(w, r, SuccessResponse("查询成功", detail))
}

// CreateAccount 创建记录
// @Summary 创建记录
// @Description 在指定对象下创建一条业务记录，data 文档不做schema校验
// @Tags 业务记录
// @Accept json
// @Produce json
// @Param account body CreateAccountRequest true "记录信息"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /accounts [post]
func (c *AccountController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if req.ObjectID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("object_id参数不能为空", nil))
		return
	}
	if req.Data == nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("data必须是键值文档", nil))
		return
	}

	record, err := c.service.CreateAccount(req.ObjectID, req.Data)
	if err != nil {
		if account.IsNotFound(err) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, NotFoundResponse("对象不存在", nil))
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreatedResponse("创建成功", record))
}

// UpdateAccount 更新记录数据
// @Summary 更新记录数据
// @Description 整体替换记录的 data 文档
// @Tags 业务记录
// @Accept json
// @Produce json
// @Param id path string true "记录ID"
// @Param data body models.JSONB true "新的数据文档"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /accounts/{id} [put]
func (c *AccountController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var data models.JSONB
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求体必须是键值文档", nil))
		return
	}

	record, err := c.service.UpdateAccountData(id, data)
	if err != nil {
		if account.IsNotFound(err) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, NotFoundResponse("记录不存在", nil))
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("更新成功", record))
}

// DeleteAccount 删除记录
// @Summary 删除记录
// @Description 软删除一条业务记录
// @Tags 业务记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /accounts/{id} [delete]
func (c *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.service.DeleteAccount(id); err != nil {
		if account.IsNotFound(err) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, NotFoundResponse("记录不存在", nil))
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("", nil))
		return
	}

	render.NoContent(w, r)
}
