package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitbook_reservations_created_total",
			Help: "Total number of reservations created",
		},
	)

	ReservationsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbook_reservations_rejected_total",
			Help: "Total number of reservation requests rejected, by reason code",
		},
		[]string{"reason"},
	)

	ReservationConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitbook_reservation_conflict_retries_total",
			Help: "Total number of commit-time conflicts retried after revalidation",
		},
	)

	ReservationCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitbook_reservation_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
	)

	WorkoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbook_workout_sessions_total",
			Help: "Total number of workout sessions logged",
		},
		[]string{"kind"},
	)

	ProgramEnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitbook_program_enrollments_total",
			Help: "Total number of program enrollments",
		},
	)

	AvailabilityCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitbook_availability_cache_hits_total",
			Help: "Availability cache lookups, by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservationCreated() {
	ReservationsCreatedTotal.Inc()
}

func RecordReservationRejected(reason string) {
	ReservationsRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordConflictRetry() {
	ReservationConflictRetriesTotal.Inc()
}

func RecordCancellation() {
	ReservationCancellationsTotal.Inc()
}

func RecordWorkoutSession(kind string) {
	WorkoutSessionsTotal.WithLabelValues(kind).Inc()
}

func RecordEnrollment() {
	ProgramEnrollmentsTotal.Inc()
}

func RecordCacheLookup(outcome string) {
	AvailabilityCacheHitsTotal.WithLabelValues(outcome).Inc()
}
