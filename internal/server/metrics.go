package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	searches     *prometheus.CounterVec
	translations prometheus.Counter
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkie",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linkie",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkie",
			Name:      "searches_total",
			Help:      "Searches by namespace and whether the result was fuzzy.",
		}, []string{"namespace", "fuzzy"}),
		translations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkie",
			Name:      "translated_searches_total",
			Help:      "Searches that requested a cross-namespace translation.",
		}),
	}
	registry.MustRegister(m.requests, m.duration, m.searches, m.translations)
	return m
}

func (m *Metrics) observeRequest(route string, method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeSearch(namespace string, fuzzy bool, translated bool) {
	m.searches.WithLabelValues(namespace, strconv.FormatBool(fuzzy)).Inc()
	if translated {
		m.translations.Inc()
	}
}
