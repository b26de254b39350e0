package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	paymentTransitions     *prometheus.CounterVec
	activePollers          prometheus.Gauge
	cacheLookups           *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		backendRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rental_backend_requests_total",
			Help:        "Total number of requests to the rental backend",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		backendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "rental_backend_request_duration_seconds",
			Help:        "Rental backend request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		paymentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_status_transitions_total",
			Help:        "Payment status transitions observed by pollers",
			ConstLabels: constLabels,
		}, []string{"status", "source"}),

		activePollers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "payment_pollers_active",
			Help:        "Number of running payment status pollers",
			ConstLabels: constLabels,
		}),

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "listing_cache_lookups_total",
			Help:        "Listing cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"listing", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendRequestsTotal,
		m.backendRequestDuration,
		m.paymentTransitions,
		m.activePollers,
		m.cacheLookups,
	)

	return m
}

// ObserveHTTP фиксирует входящий HTTP-запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBackend фиксирует запрос к бэкенду аренды
func (m *Metrics) ObserveBackend(operation, outcome string, duration time.Duration) {
	m.backendRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.backendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// PaymentTransition фиксирует смену статуса оплаты
func (m *Metrics) PaymentTransition(status, source string) {
	m.paymentTransitions.WithLabelValues(status, source).Inc()
}

func (m *Metrics) PollerStarted() {
	m.activePollers.Inc()
}

func (m *Metrics) PollerStopped() {
	m.activePollers.Dec()
}

// CacheLookup фиксирует попадание или промах кэша листингов
func (m *Metrics) CacheLookup(listing string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(listing, result).Inc()
}

// Nop реализация без записи метрик, используется когда метрики выключены
type Nop struct{}

func (Nop) ObserveHTTP(string, string, int, time.Duration) {}
func (Nop) ObserveBackend(string, string, time.Duration) {}
func (Nop) PaymentTransition(string, string) {}
func (Nop) PollerStarted() {}
func (Nop) PollerStopped() {}
func (Nop) CacheLookup(string, bool) {}
