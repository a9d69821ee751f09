package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// syncRequests /sync 请求计数，按处理结果分标签
var syncRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coordinator_sync_requests_total",
	Help: "Total number of /sync requests served, labeled by outcome.",
}, []string{"outcome"})

const (
	outcomeOK        = "ok"
	outcomeThrottled = "throttled"
)
