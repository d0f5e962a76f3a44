package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 投影请求计数，按接口和结果区分，/metrics 暴露
var projectionRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_projection_requests_total",
		Help: "记录列表/详情投影请求次数",
	},
	[]string{"endpoint", "result"},
)
