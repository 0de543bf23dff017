package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	BookingDecisions    *prometheus.CounterVec
	BookingTransitions  *prometheus.CounterVec
	RouteOptimizations  *prometheus.HistogramVec
	RouteCacheLookups   *prometheus.CounterVec
	RemindersScheduled  *prometheus.CounterVec
	RemindersDispatched prometheus.Counter
}

// New создает и регистрирует метрики в отдельном registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests.", ConstLabels: constLabels},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", ConstLabels: constLabels, Buckets: prometheus.DefBuckets},
			[]string{"method", "path", "status"},
		),
		BookingDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "booking_decisions_total", Help: "Initial placement outcomes of submitted bookings.", ConstLabels: constLabels},
			[]string{"outcome"},
		),
		BookingTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "booking_transitions_total", Help: "Manual booking transitions by action and result.", ConstLabels: constLabels},
			[]string{"action", "result"},
		),
		RouteOptimizations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "route_optimization_duration_seconds", Help: "Route optimization latency.", ConstLabels: constLabels, Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5}},
			[]string{"source"},
		),
		RouteCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Route snapshot cache lookups.", ConstLabels: constLabels},
			[]string{"result"},
		),
		RemindersScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "reminders_scheduled_total", Help: "Reminder entries created, by initial status.", ConstLabels: constLabels},
			[]string{"status"},
		),
		RemindersDispatched: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "reminders_dispatched_total", Help: "Reminder entries handed to the notification dispatcher.", ConstLabels: constLabels},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.BookingDecisions,
		m.BookingTransitions,
		m.RouteOptimizations,
		m.RouteCacheLookups,
		m.RemindersScheduled,
		m.RemindersDispatched,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает registry (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// ObserveDecision фиксирует исход первичного размещения брони
func (m *Metrics) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.BookingDecisions.WithLabelValues(outcome).Inc()
}

// ObserveTransition фиксирует ручной переход статуса
func (m *Metrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(action, result).Inc()
}

// ObserveRouteOptimization фиксирует длительность расчёта маршрута
func (m *Metrics) ObserveRouteOptimization(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.RouteOptimizations.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveRouteCache фиксирует попадание/промах кэша маршрутов
func (m *Metrics) ObserveRouteCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RouteCacheLookups.WithLabelValues(result).Inc()
}

// ObserveReminderScheduled фиксирует созданную запись напоминания
func (m *Metrics) ObserveReminderScheduled(status string) {
	if m == nil {
		return
	}
	m.RemindersScheduled.WithLabelValues(status).Inc()
}

// ObserveRemindersDispatched фиксирует отправленные в очередь напоминания
func (m *Metrics) ObserveRemindersDispatched(n int) {
	if m == nil {
		return
	}
	m.RemindersDispatched.Add(float64(n))
}
