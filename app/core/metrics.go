package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taysluxe/tayai/pkg/metrics"
)

type Metrics struct {
	apiResponseTime  *prometheus.HistogramVec
	apiErrorCounter  *prometheus.CounterVec
	llmResponseTime  *prometheus.HistogramVec
	llmErrorCounter  *prometheus.CounterVec
	retrieveTime     *prometheus.HistogramVec
	gapDetected      *prometheus.CounterVec
	usageLimitDenied *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:  metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:  metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		llmResponseTime:  metrics.NewHistogramVec("llm_response_time", []string{"mode"}),
		llmErrorCounter:  metrics.NewCounterVec("llm_error", []string{"type"}),
		retrieveTime:     metrics.NewHistogramVec("rag_retrieve_time", []string{"namespace"}),
		gapDetected:      metrics.NewCounterVec("kb_gap_detected", []string{"namespace"}),
		usageLimitDenied: metrics.NewCounterVec("usage_limit_denied", []string{"tier"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) LLMResponseTimer(mode string) *prometheus.Timer {
	return prometheus.NewTimer(m.llmResponseTime.WithLabelValues(mode))
}

func (m *Metrics) LLMErrorInc(kind string) {
	m.llmErrorCounter.WithLabelValues(kind).Inc()
}

func (m *Metrics) RetrieveTimer(namespace string) *prometheus.Timer {
	return prometheus.NewTimer(m.retrieveTime.WithLabelValues(namespace))
}

func (m *Metrics) GapDetectedInc(namespace string) {
	m.gapDetected.WithLabelValues(namespace).Inc()
}

func (m *Metrics) UsageLimitDeniedInc(tier string) {
	m.usageLimitDenied.WithLabelValues(tier).Inc()
}
