package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	lessonsCompletedTotal   prometheus.Counter
	certificatesIssuedTotal prometheus.Counter
	examSubmissionsTotal    *prometheus.CounterVec
	gamificationAwardsTotal *prometheus.CounterVec
	sideEffectFailuresTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		lessonsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lessons_completed_total",
			Help: "Total number of first-time lesson completions recorded.",
		})

		certificatesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Total number of certificates issued.",
		})

		examSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Total number of exam submissions recorded, by grading result.",
		}, []string{"result"})

		gamificationAwardsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamification_awards_total",
			Help: "Total number of gamification awards granted, by reason.",
		}, []string{"reason"})

		sideEffectFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "completion_side_effect_failures_total",
			Help: "Total number of failed completion side-effect tasks.",
		}, []string{"task"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			lessonsCompletedTotal,
			certificatesIssuedTotal,
			examSubmissionsTotal,
			gamificationAwardsTotal,
			sideEffectFailuresTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// LessonsCompletedTotal exposes the first-time lesson completion counter.
func LessonsCompletedTotal() prometheus.Counter {
	RegisterMetrics()
	return lessonsCompletedTotal
}

// CertificatesIssuedTotal exposes the certificate issuance counter.
func CertificatesIssuedTotal() prometheus.Counter {
	RegisterMetrics()
	return certificatesIssuedTotal
}

// ExamSubmissionsTotal exposes the exam submission counter.
func ExamSubmissionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return examSubmissionsTotal
}

// GamificationAwardsTotal exposes the award counter.
func GamificationAwardsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return gamificationAwardsTotal
}

// SideEffectFailuresTotal exposes the side-effect failure counter.
func SideEffectFailuresTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return sideEffectFailuresTotal
}
