// internal/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Accounts created, by kind ("user" or "superuser")
	UsersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapayl_users_created_total",
		Help: "Total number of user accounts created",
	}, []string{"kind"})

	// Failed creation attempts, by kind and reason
	UserCreateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapayl_user_create_failures_total",
		Help: "Total number of failed user account creations",
	}, []string{"kind", "reason"})

	// KYC status transitions recorded, by target status
	KYCStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapayl_kyc_status_changes_total",
		Help: "Total number of KYC status updates",
	}, []string{"status"})

	// Latency of HTTP handlers by route pattern
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapayl_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var once sync.Once

// Init registers the collectors with the default Prometheus registry.
// Calling it more than once is safe.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			UsersCreated,
			UserCreateFailures,
			KYCStatusChanges,
			HTTPRequestDuration,
		)
	})
}
