// Package metrics declares the Prometheus collectors of the recipe server.
// Collectors register with the default registry on import; /metrics serves
// them through promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipes_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipes_http_active_requests",
			Help: "Number of HTTP requests being served",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_login_attempts_total",
			Help: "Login attempts by kind (admin, client, activation) and result",
		},
		[]string{"kind", "result"},
	)

	RecipeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_recipe_mutations_total",
			Help: "Successful recipe mutations by operation",
		},
		[]string{"operation"},
	)
)

// RecordRequest records one finished request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func RecordRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordLogin counts a login or activation attempt.
func RecordLogin(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	LoginAttempts.WithLabelValues(kind, result).Inc()
}

func RecordRecipeMutation(operation string) {
	RecipeMutations.WithLabelValues(operation).Inc()
}
