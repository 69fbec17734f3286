package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guard_csrf_tokens_issued_total",
			Help: "Total number of CSRF tokens issued",
		},
	)

	Validations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_csrf_validations_total",
			Help: "Total number of CSRF validations by result",
		},
		[]string{"result"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guard_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_panics_recovered_total",
			Help: "Total number of panics recovered in request handling",
		},
		[]string{"method"},
	)
)
