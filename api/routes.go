/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"github.com/Nekopanti/crm-project/api/controllers"
	"github.com/Nekopanti/crm-project/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 记录管理
	r.Route("/accounts", func(r chi.Router) {
		accountController := controllers.NewAccountController(service.GlobalAccountService)
		r.Get("/", accountController.ListAccounts)
		r.Post("/", accountController.CreateAccount)
		r.Get("/{id}", accountController.GetAccountDetail)
		r.Put("/{id}", accountController.UpdateAccount)
		r.Delete("/{id}", accountController.DeleteAccount)
	})

	// 对象管理
	objectController := controllers.NewObjectController(service.GlobalMetadataService)
	r.Route("/objects", func(r chi.Router) {
		r.Post("/", objectController.CreateObject)
		r.Post("/composite", objectController.CreateObjectComposite)
		r.Get("/", objectController.GetObjects)
		r.Get("/{id}", objectController.GetObject)
		r.Put("/{id}", objectController.UpdateObject)
		r.Put("/{id}/composite", objectController.UpdateObjectComposite)
		r.Delete("/{id}", objectController.DeleteObject)
	})

	// 对象字段管理
	r.Route("/object-fields", func(r chi.Router) {
		r.Post("/", objectController.CreateObjectField)
		r.Get("/", objectController.GetObjectFields)
		r.Get("/{id}", objectController.GetObjectField)
		r.Put("/{id}", objectController.UpdateObjectField)
		r.Delete("/{id}", objectController.DeleteObjectField)
	})

	// 列表视图管理
	pageListController := controllers.NewPageListController(service.GlobalMetadataService)
	r.Route("/page-lists", func(r chi.Router) {
		r.Post("/", pageListController.CreatePageList)
		r.Post("/composite", pageListController.CreatePageListComposite)
		r.Get("/", pageListController.GetPageLists)
		r.Get("/{id}", pageListController.GetPageList)
		r.Put("/{id}", pageListController.UpdatePageList)
		r.Delete("/{id}", pageListController.DeletePageList)
	})

	// 列表列管理
	r.Route("/page-list-fields", func(r chi.Router) {
		r.Post("/", pageListController.CreatePageListField)
		r.Get("/", pageListController.GetPageListFields)
		r.Get("/{id}", pageListController.GetPageListField)
		r.Put("/{id}", pageListController.UpdatePageListField)
		r.Delete("/{id}", pageListController.DeletePageListField)
	})

	// 详情布局管理
	pageLayoutController := controllers.NewPageLayoutController(service.GlobalMetadataService)
	r.Route("/page-layouts", func(r chi.Router) {
		r.Post("/", pageLayoutController.CreatePageLayout)
		r.Get("/", pageLayoutController.GetPageLayouts)
		r.Get("/{id}", pageLayoutController.GetPageLayout)
		r.Put("/{id}", pageLayoutController.UpdatePageLayout)
		r.Delete("/{id}", pageLayoutController.DeletePageLayout)
	})

	// 布局字段管理
	r.Route("/page-layout-fields", func(r chi.Router) {
		r.Post("/", pageLayoutController.CreatePageLayoutField)
		r.Get("/", pageLayoutController.GetPageLayoutFields)
		r.Get("/{id}", pageLayoutController.GetPageLayoutField)
		r.Put("/{id}", pageLayoutController.UpdatePageLayoutField)
		r.Delete("/{id}", pageLayoutController.DeletePageLayoutField)
	})
}
