package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts auth operation outcomes. One instance per process,
// registered on the registry the bootstrap serves at /metrics.
type Metrics struct {
	signups *prometheus.CounterVec
	signins *prometheus.CounterVec
}

// NewMetrics registers the auth counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		signups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prepauth",
			Subsystem: "auth",
			Name:      "signup_total",
			Help:      "Signup attempts by outcome.",
		}, []string{"outcome"}),
		signins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prepauth",
			Subsystem: "auth",
			Name:      "signin_total",
			Help:      "Signin attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeSignUp(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeSignIn(outcome string) {
	if m == nil {
		return
	}
	m.signins.WithLabelValues(outcome).Inc()
}
