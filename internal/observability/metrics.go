package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
)

// Metrics holds the Prometheus metrics of hederad.
type Metrics struct {
	// --- Assessment ---
	Assessments        *prometheus.CounterVec
	AssessmentDuration prometheus.Histogram
	AssessedFees       *prometheus.CounterVec

	// --- Stores ---
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	StoreErrors *prometheus.CounterVec

	// --- RPC ---
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	latencyBuckets := []float64{
		0.00001, 0.000025, 0.00005, 0.0001, 0.00025,
		0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05,
	}

	return &Metrics{
		Assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_assessments_total",
			Help: "Finished transfer assessments by outcome",
		}, []string{"code"}),

		AssessmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hederad_assessment_duration_seconds",
			Help:    "Time to assess one transfer",
			Buckets: latencyBuckets,
		}),

		AssessedFees: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_assessed_fees_total",
			Help: "Custom fees charged by denomination",
		}, []string{"denomination"}),

		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_store_cache_hits_total",
			Help: "Store reads served from the read cache",
		}, []string{"store"}),

		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_store_cache_misses_total",
			Help: "Store reads that went to the database",
		}, []string{"store"}),

		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_store_errors_total",
			Help: "Store operations that failed",
		}, []string{"store", "op"}),

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hederad_rpc_requests_total",
			Help: "JSON-RPC requests by method and result",
		}, []string{"method", "result"}),

		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hederad_rpc_duration_seconds",
			Help:    "JSON-RPC request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveAssessment records the outcome of one assessment.
func (m *Metrics) ObserveAssessment(code status.ResponseCode, fees []customfee.AssessedCustomFee, elapsed time.Duration) {
	m.Assessments.WithLabelValues(code.String()).Inc()
	m.AssessmentDuration.Observe(elapsed.Seconds())
	for _, fee := range fees {
		denom := "token"
		if fee.IsHbar() {
			denom = "hbar"
		}
		m.AssessedFees.WithLabelValues(denom).Inc()
	}
}

// CacheHit counts a read served from a store's cache
func (m *Metrics) CacheHit(store string) {
	m.CacheHits.WithLabelValues(store).Inc()
}

// CacheMiss counts a read that missed a store's cache
func (m *Metrics) CacheMiss(store string) {
	m.CacheMisses.WithLabelValues(store).Inc()
}

func (m *Metrics) StoreError(store, op string) {
	m.StoreErrors.WithLabelValues(store, op).Inc()
}

// ObserveRPC records one JSON-RPC request.
func (m *Metrics) ObserveRPC(method, result string, elapsed time.Duration) {
	m.RPCRequests.WithLabelValues(method, result).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
