package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, RemoteRequestsTotal)
	assert.NotNil(t, SnapshotCacheTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, MessagesConsumedTotal)
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "list", "result": ResultSuccess}
	before := getCounterVecValue(t, RemoteRequestsTotal, labels)

	IncCounterVec(RemoteRequestsTotal, labels)
	IncCounterVec(RemoteRequestsTotal, labels)
	IncCounterVec(RemoteRequestsTotal, map[string]string{"operation": "list", "result": ResultFailure})

	assert.Equal(t, before+2, getCounterVecValue(t, RemoteRequestsTotal, labels))
}

func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "books-remote"}, 1)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "other"}, 0)

	assert.Equal(t, float64(1), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "books-remote"}))
	assert.Equal(t, float64(0), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "other"}))
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "delete"}
	before := getHistogramVecCount(t, RemoteRequestDuration, labels)

	ObserveHistogramVec(RemoteRequestDuration, labels, 0.2)
	ObserveHistogramVec(RemoteRequestDuration, labels, 1.5)

	assert.Equal(t, before+2, getHistogramVecCount(t, RemoteRequestDuration, labels))
}

func TestResult(t *testing.T) {
	assert.Equal(t, ResultSuccess, Result(nil))
	assert.Equal(t, ResultFailure, Result(errors.New("boom")))
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counterVec.With(labels).Write(&metric))
	return metric.Counter.GetValue()
}

func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gaugeVec.With(labels).Write(&metric))
	return metric.Gauge.GetValue()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, histogramVec.With(labels).(prometheus.Histogram).Write(&metric))
	return metric.Histogram.GetSampleCount()
}
