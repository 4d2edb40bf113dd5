// Package metrics exposes Prometheus counters for bookings and logins.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "waste_pickup",
			Name:      "bookings_created_total",
			Help:      "Count of pickup bookings created.",
		},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waste_pickup",
			Name:      "booking_status_changes_total",
			Help:      "Count of booking status updates by target status.",
		},
		[]string{"status"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waste_pickup",
			Name:      "auth_attempts_total",
			Help:      "Count of login attempts by kind (user/admin) and result.",
		},
		[]string{"kind", "result"},
	)
)

// Register registers metrics with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, statusChanges, authAttempts)
	})
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

func IncAuthAttempt(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	authAttempts.WithLabelValues(kind, result).Inc()
}
