package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth_gateway"

// Metrics holds the login counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	keywordChecks *prometheus.CounterVec
	oauthLogins   *prometheus.CounterVec
	logouts       prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		keywordChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_checks_total",
			Help:      "Keyword submissions by result.",
		}, []string{"result"}),
		oauthLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oauth_logins_total",
			Help:      "Completed OAuth callbacks by provider and final state.",
		}, []string{"provider", "state"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout requests.",
		}),
	}

	reg.MustRegister(
		m.keywordChecks,
		m.oauthLogins,
		m.logouts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) KeywordCheck(ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "accepted"
	}
	m.keywordChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) OAuthLogin(provider, state string) {
	if m == nil {
		return
	}
	m.oauthLogins.WithLabelValues(provider, state).Inc()
}

func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.logouts.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
