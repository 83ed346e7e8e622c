// Package metrics holds the prometheus collectors of the economy service.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultDropped  = "dropped"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "economy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "economy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "economy",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by name and result.",
		},
		[]string{"operation", "result"},
	)

	accrualScans = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "economy",
			Subsystem: "accrual",
			Name:      "scans_total",
			Help:      "Number of accrual scans run.",
		},
	)

	accrualLoans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "economy",
			Subsystem: "accrual",
			Name:      "loans_total",
			Help:      "Loans visited by accrual scans by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "economy",
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notifications handed to the sink by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ledgerOperations,
		accrualScans,
		accrualLoans,
		notifications,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request. path must be the route template.
func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}

	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Result classifies the outcome of a ledger operation.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, errorspkg.ErrOperationFailed):
		return ResultFailed
	default:
		return ResultRejected
	}
}

// RecordOperation counts a ledger operation.
func RecordOperation(operation string, err error) {
	ledgerOperations.WithLabelValues(operation, Result(err)).Inc()
}

// RecordAccrual counts one accrual scan.
func RecordAccrual(report domain.AccrualReport) {
	accrualScans.Inc()
	accrualLoans.WithLabelValues("accrued").Add(float64(report.Accrued))
	accrualLoans.WithLabelValues(ResultFailed).Add(float64(report.Failed))
	accrualLoans.WithLabelValues("unchanged").Add(float64(report.Scanned - report.Accrued - report.Failed))
}

// RecordNotification counts a notification outcome.
func RecordNotification(result string) {
	notifications.WithLabelValues(result).Inc()
}
