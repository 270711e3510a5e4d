// Package metrics 集中定义 prometheus 指标，/metrics 由 routers 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forumcore"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// VotesTotal 按对象类型和方向统计的投票请求
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Vote transitions by target type and requested direction.",
	}, []string{"target_type", "direction"})

	ContentCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_created_total",
		Help:      "Communities, posts and comments created.",
	}, []string{"kind"})

	ModActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mod_actions_total",
		Help:      "Moderation log entries written by action.",
	}, []string{"action"})

	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Best-effort side effects that failed.",
	}, []string{"effect"})

	ViewFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_flush_posts_total",
		Help:      "Posts whose buffered view counts were written back to the store.",
	})
)

// GinMetrics 记录请求数和耗时，route 取路由模板避免路径参数打爆标签
func GinMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
