package reconciler

import "time"

type MetricsCollector interface {
	RecordEvent(eventType, outcome string, elapsed time.Duration)
	RecordRejected(reason string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordEvent(string, string, time.Duration) {}
func (n *NoopMetricsCollector) RecordRejected(string)                     {}
