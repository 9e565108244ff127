package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics records request timings plus the domain counters we alert on.
type APIMetrics struct {
	requestDuration *prometheus.HistogramVec
	tripsCreated    prometheus.Counter
	membersJoined   prometheus.Counter
	votesCast       prometheus.Counter
	assistRequests  *prometheus.CounterVec
	geoLookups      *prometheus.CounterVec
}

// NewAPIMetrics registers the API metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	tripsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trips_created_total",
		Help: "Trips created.",
	})
	membersJoined := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trip_members_joined_total",
		Help: "Members joined to trips via join codes.",
	})
	votesCast := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "activity_votes_cast_total",
		Help: "Votes cast on activities.",
	})
	assistRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assist_requests_total",
		Help: "Assistant requests by kind.",
	}, []string{"kind"})
	geoLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_lookups_total",
		Help: "Geocoding and timezone lookups by kind.",
	}, []string{"kind"})
	reg.MustRegister(requestDuration, tripsCreated, membersJoined, votesCast, assistRequests, geoLookups)
	return &APIMetrics{
		requestDuration: requestDuration,
		tripsCreated:    tripsCreated,
		membersJoined:   membersJoined,
		votesCast:       votesCast,
		assistRequests:  assistRequests,
		geoLookups:      geoLookups,
	}
}

// ObserveRequest records the duration of a handled HTTP request.
func (m *APIMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(duration.Seconds())
}

// IncTripsCreated increments the trip creation counter.
func (m *APIMetrics) IncTripsCreated() {
	if m == nil || m.tripsCreated == nil {
		return
	}
	m.tripsCreated.Inc()
}

// IncMembersJoined increments the join counter.
func (m *APIMetrics) IncMembersJoined() {
	if m == nil || m.membersJoined == nil {
		return
	}
	m.membersJoined.Inc()
}

// IncVotesCast increments the vote counter.
func (m *APIMetrics) IncVotesCast() {
	if m == nil || m.votesCast == nil {
		return
	}
	m.votesCast.Inc()
}

// IncAssistRequests increments the assistant counter for the given kind.
func (m *APIMetrics) IncAssistRequests(kind string) {
	if m == nil || m.assistRequests == nil {
		return
	}
	m.assistRequests.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncGeoLookups increments the geo lookup counter for the given kind.
func (m *APIMetrics) IncGeoLookups(kind string) {
	if m == nil || m.geoLookups == nil {
		return
	}
	m.geoLookups.WithLabelValues(normalizeLabel(kind)).Inc()
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
