package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hostes",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hostes",
			Name:      "reservations_created_total",
			Help:      "Reservations created, by initial status.",
		},
		[]string{"status"},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hostes",
			Name:      "reservation_conflicts_total",
			Help:      "Booking attempts rejected by the overlap check.",
		},
	)

	syncRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hostes",
			Name:      "sheets_sync_retries_total",
			Help:      "Sheets sync tasks that needed a retry.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationsCreated, reservationConflicts, syncRetries)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// IncReservationCreated counts a successful booking.
func IncReservationCreated(status string) {
	reservationsCreated.WithLabelValues(status).Inc()
}

// IncConflict counts a rejected booking attempt.
func IncConflict() {
	reservationConflicts.Inc()
}

// IncSyncRetry counts a sheets sync retry.
func IncSyncRetry() {
	syncRetries.Inc()
}
