package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewLocationAcquisitionsTotal counts acquisition outcomes by trigger source and result
// (cache, live:<tier>, stale-cache, services_disabled, permission_denied, unavailable).
func NewLocationAcquisitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "location_acquisitions_total",
		Help: "Total number of location acquisitions by source and result",
	}, []string{"source", "result"})
}

// NewLocationReportsTotal counts report outcomes (delivered, skipped, failed).
func NewLocationReportsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "location_reports_total",
		Help: "Total number of location reports by result",
	}, []string{"result"})
}

// NewOfferTransitionsTotal counts offer state machine transitions by target state.
func NewOfferTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_transitions_total",
		Help: "Total number of order offer transitions by target state",
	}, []string{"state"})
}

// NewHTTPRequestsTotal counts served HTTP requests by method, route and status.
func NewHTTPRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
}

// NewHTTPRequestDuration observes HTTP request latency by method, route and status.
func NewHTTPRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
}

// Set groups the agent collectors so they can be registered at once.
type Set struct {
	RateLimitExceeded    prometheus.Counter
	GatewayRetries       prometheus.Counter
	LocationAcquisitions *prometheus.CounterVec
	LocationReports      *prometheus.CounterVec
	OfferTransitions     *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// NewSet builds every collector.
func NewSet() *Set {
	return &Set{
		RateLimitExceeded:    NewRateLimitExceededTotal(),
		GatewayRetries:       NewGatewayRetriesTotal(),
		LocationAcquisitions: NewLocationAcquisitionsTotal(),
		LocationReports:      NewLocationReportsTotal(),
		OfferTransitions:     NewOfferTransitionsTotal(),
		HTTPRequests:         NewHTTPRequestsTotal(),
		HTTPDuration:         NewHTTPRequestDuration(),
	}
}

// Register registers all collectors with reg.
func (s *Set) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		s.RateLimitExceeded,
		s.GatewayRetries,
		s.LocationAcquisitions,
		s.LocationReports,
		s.OfferTransitions,
		s.HTTPRequests,
		s.HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
