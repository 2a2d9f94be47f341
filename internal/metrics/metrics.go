package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer          prometheus.Gatherer
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	runs              *prometheus.CounterVec
	unallocatedZones  prometheus.Gauge
	unmetDemand       prometheus.Gauge
	reloads           *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_cache_hits_total",
			Help: "Shortest-path trees served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_cache_misses_total",
			Help: "Shortest-path trees computed on demand.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Completed allocation runs by kind.",
		}, []string{"kind"}),
		unallocatedZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unallocated_zones",
			Help: "Zones left without a rescue team by the last allocation run.",
		}),
		unmetDemand: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unmet_area_demand",
			Help: "Affected-area demand left unserved by the last distribution run.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "network_reloads_total",
			Help: "Network reloads by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.runs,
		m.unallocatedZones,
		m.unmetDemand,
		m.reloads,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) Allocation(unallocated int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("allocation").Inc()
	m.unallocatedZones.Set(float64(unallocated))
}

func (m *Metrics) Distribution(unmet int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("distribution").Inc()
	m.unmetDemand.Set(float64(unmet))
}

func (m *Metrics) Dispatch() {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("dispatch").Inc()
}

func (m *Metrics) Reload(success bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	m.reloads.WithLabelValues(outcome).Inc()
}
