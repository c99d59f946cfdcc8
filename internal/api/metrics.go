package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reportservice/internal/render"
	"reportservice/internal/services"
)

var _ services.Recorder = (*Metrics)(nil)

// Metrics agrupa os coletores do serviço num registry próprio.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	reportsTotal       *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	persistenceFailure prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reportservice_http_requests_total",
				Help: "Total de requisições HTTP por rota e status",
			},
			[]string{"route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reportservice_http_request_duration_seconds",
				Help:    "Duração das requisições HTTP",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"route"},
		),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reportservice_reports_total",
				Help: "Relatórios gerados por origem e resultado",
			},
			[]string{"source", "outcome"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reportservice_render_duration_seconds",
				Help:    "Duração da renderização por formato",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"format", "outcome"},
		),
		persistenceFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reportservice_persistence_failures_total",
			Help: "Falhas ao gravar metadados no banco (engolidas)",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.reportsTotal,
		m.renderDuration,
		m.persistenceFailure,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRender(format render.Format, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(string(format), outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) ObserveReport(source string, err error) {
	m.reportsTotal.WithLabelValues(source, outcome(err)).Inc()
}

func (m *Metrics) ObservePersistence(err error) {
	if err != nil {
		m.persistenceFailure.Inc()
	}
}

func (m *Metrics) observeRequest(route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
