// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface, the inventory ledger and the directory sync worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the application metrics.
type Collector struct {
	requests     *prometheus.CounterVec
	issuesTotal  prometheus.Counter
	returnsTotal prometheus.Counter
	syncSuccess  prometheus.Counter
	syncFailure  prometheus.Counter
	syncUsers    prometheus.Gauge
	syncDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kleiderkammer_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		issuesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kleiderkammer_lendings_issued_total",
			Help: "Clothing items issued.",
		}),
		returnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kleiderkammer_lendings_returned_total",
			Help: "Clothing items returned.",
		}),
		syncSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kleiderkammer_directory_sync_success_total",
			Help: "Successful directory sync runs.",
		}),
		syncFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kleiderkammer_directory_sync_failure_total",
			Help: "Failed directory sync runs.",
		}),
		syncUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kleiderkammer_directory_users",
			Help: "Users in the current directory snapshot.",
		}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kleiderkammer_directory_sync_duration_seconds",
			Help:    "Directory sync duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.requests,
		c.issuesTotal,
		c.returnsTotal,
		c.syncSuccess,
		c.syncFailure,
		c.syncUsers,
		c.syncDuration,
	)

	return c
}

// RecordRequest counts one handled HTTP request.
func (c *Collector) RecordRequest(method string, status int) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RecordIssue counts one issued lending.
func (c *Collector) RecordIssue() {
	c.issuesTotal.Inc()
}

// RecordReturn counts one returned lending.
func (c *Collector) RecordReturn() {
	c.returnsTotal.Inc()
}

// RecordSyncSuccess records a successful sync run and its snapshot size.
func (c *Collector) RecordSyncSuccess(users int, duration time.Duration) {
	c.syncSuccess.Inc()
	c.syncUsers.Set(float64(users))
	c.syncDuration.Observe(duration.Seconds())
}

// RecordSyncFailure records a failed sync run.
func (c *Collector) RecordSyncFailure(duration time.Duration) {
	c.syncFailure.Inc()
	c.syncDuration.Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
