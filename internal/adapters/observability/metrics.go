package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "easystay", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "easystay", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "easystay", Name: "store_operations_total", Help: "Hotel repository operations."},
		[]string{"op", "result"}, // result: ok|not_found|invalid|no_change|conflict|io|error
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "easystay", Name: "store_operation_duration_seconds",
			Help:    "Hotel repository operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	KVEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "easystay", Name: "kv_events_total", Help: "Key-value substrate hits/misses/sets/removes/errors."},
		[]string{"backend", "event"}, // event: hit|miss|set|remove|error
	)
)

// MetricsServer returns a dedicated /metrics listener for addr, or nil when
// addr is empty.
func MetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreOps, StoreLatency, KVEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStore(op, result string, dur time.Duration) {
	StoreOps.WithLabelValues(op, result).Inc()
	StoreLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveKV(backend, event string) { // event: hit|miss|set|remove|error
	KVEvents.WithLabelValues(backend, event).Inc()
}
