package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics records report build and cache activity.
type ReportMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	failure     *prometheus.CounterVec
	claims      *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
}

// NewReportMetrics registers the report metrics on the provided registerer.
// A nil registerer yields a no-op collector.
func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_build_duration_seconds",
		Help:    "Duration of report builds in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"client", "period"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_build_success_total",
		Help: "Successful report builds.",
	}, []string{"client", "period"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_build_failure_total",
		Help: "Failed report builds.",
	}, []string{"client", "period"})
	claims := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_claims_fetched_total",
		Help: "Claims returned by the claims API.",
	}, []string{"client"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_claims_skipped_total",
		Help: "Claims left out of a report, by reason.",
	}, []string{"client", "reason"})
	cacheLookup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_cache_lookups_total",
		Help: "Report cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(duration, success, failure, claims, skipped, cacheLookup)
	return &ReportMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		claims:      claims,
		skipped:     skipped,
		cacheLookup: cacheLookup,
	}
}

// ObserveBuild records the outcome and duration of one build.
func (m *ReportMetrics) ObserveBuild(client, period string, duration time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	client, period = normalizeLabel(client), normalizeLabel(period)
	m.duration.WithLabelValues(client, period).Observe(duration.Seconds())
	if err != nil {
		m.failure.WithLabelValues(client, period).Inc()
		return
	}
	m.success.WithLabelValues(client, period).Inc()
}

func (m *ReportMetrics) AddClaims(client string, n int) {
	if m == nil || m.claims == nil || n <= 0 {
		return
	}
	m.claims.WithLabelValues(normalizeLabel(client)).Add(float64(n))
}

func (m *ReportMetrics) AddSkipped(client, reason string, n int) {
	if m == nil || m.skipped == nil || n <= 0 {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(client), normalizeLabel(reason)).Add(float64(n))
}

func (m *ReportMetrics) CacheHit() {
	m.cacheResult("hit")
}

func (m *ReportMetrics) CacheMiss() {
	m.cacheResult("miss")
}

func (m *ReportMetrics) cacheResult(result string) {
	if m == nil || m.cacheLookup == nil {
		return
	}
	m.cacheLookup.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
