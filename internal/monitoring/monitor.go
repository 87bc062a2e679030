package monitoring

import (
	"sync"
	"time"
)

// Monitor keeps a small in-process snapshot of service health that is
// served as JSON on the status endpoint. Prometheus carries the full series.
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// Incr adds one to an integer counter, creating it at zero if needed.
func (m *Monitor) Incr(name string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	n, _ := m.metrics[name].(int64)
	m.metrics[name] = n + 1
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns a copy of all metrics plus uptime_seconds.
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// RecordScorerOutcome counts a scorer call by outcome and remembers the
// last failure, if any.
func (m *Monitor) RecordScorerOutcome(outcome string, err error) {
	ScorerRequests.WithLabelValues(outcome).Inc()

	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	key := "scorer_" + outcome
	n, _ := m.metrics[key].(int64)
	m.metrics[key] = n + 1
	if err != nil {
		m.metrics["scorer_last_error"] = err.Error()
		m.metrics["scorer_last_error_at"] = time.Now().Format(time.RFC3339)
	}
}
