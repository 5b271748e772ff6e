package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prokatnik",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prokatnik",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted into the waiting state.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prokatnik",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on waiting bookings.",
		},
		[]string{"decision"},
	)

	commentsPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prokatnik",
			Name:      "comments_posted_total",
			Help:      "Comments that passed the booking-history gate.",
		},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prokatnik",
			Name:      "summary_cache_requests_total",
			Help:      "Item summary cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingDecisions, commentsPosted, cacheRequests)
	})
}

// IncHTTP increments the request counter for an endpoint/code pair.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingDecision records an approve/reject outcome.
func IncBookingDecision(decision string) {
	bookingDecisions.WithLabelValues(decision).Inc()
}

func IncCommentPosted() {
	commentsPosted.Inc()
}

// IncCacheOutcome records hit/miss/error for the summary cache.
func IncCacheOutcome(outcome string) {
	cacheRequests.WithLabelValues(outcome).Inc()
}
