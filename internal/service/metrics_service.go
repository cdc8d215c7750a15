package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the board API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	acknowledgments *prometheus.CounterVec
	created         prometheus.Counter
	rejections      prometheus.Counter
	submissions     *prometheus.CounterVec
	announcements   *prometheus.GaugeVec
	sessions        prometheus.Gauge
	imagesRemoved   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	acknowledgments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_acknowledgments_total",
		Help: "Acknowledgment attempts by outcome",
	}, []string{"outcome"})

	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_announcements_created_total",
		Help: "Announcements published through the creation dialog",
	})

	rejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_password_rejections_total",
		Help: "Incorrect creation dialog passwords",
	})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_submissions_total",
		Help: "Draft submissions by outcome",
	}, []string{"outcome"})

	announcements := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "board_announcements",
		Help: "Announcements by derived status as of the last listing",
	}, []string{"status"})

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_sessions",
		Help: "Live board sessions",
	})

	imagesRemoved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_images_removed_total",
		Help: "Stored images removed by cancel or cleanup",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		acknowledgments, created, rejections, submissions, announcements, sessions, imagesRemoved, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		acknowledgments: acknowledgments,
		created:         created,
		rejections:      rejections,
		submissions:     submissions,
		announcements:   announcements,
		sessions:        sessions,
		imagesRemoved:   imagesRemoved,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordAcknowledgment counts an acknowledgment attempt; outcome is recorded, duplicate or rejected.
func (m *MetricsService) RecordAcknowledgment(outcome string) {
	if m == nil {
		return
	}
	m.acknowledgments.WithLabelValues(outcome).Inc()
}

// RecordAnnouncementCreated counts a published announcement.
func (m *MetricsService) RecordAnnouncementCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
}

// RecordPasswordRejected counts a failed creation dialog password.
func (m *MetricsService) RecordPasswordRejected() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}

// RecordSubmission counts a draft submission outcome.
func (m *MetricsService) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// SetAnnouncementCounts publishes the current/previous split.
func (m *MetricsService) SetAnnouncementCounts(current, previous int) {
	if m == nil {
		return
	}
	m.announcements.WithLabelValues("current").Set(float64(current))
	m.announcements.WithLabelValues("previous").Set(float64(previous))
}

// SetSessions publishes the live session count.
func (m *MetricsService) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// AddImagesRemoved counts deleted images.
func (m *MetricsService) AddImagesRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.imagesRemoved.Add(float64(n))
}
