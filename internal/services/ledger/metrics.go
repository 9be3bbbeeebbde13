package ledger

// MetricsCollector defines the interface for collecting ledger metrics.
type MetricsCollector interface {
	RecordTransaction(op string, amountCents int64)
	RecordReplay(op string)
	RecordError(op, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, int64) {}
func (n *NoopMetricsCollector) RecordReplay(string)             {}
func (n *NoopMetricsCollector) RecordError(string, string)      {}
func (n *NoopMetricsCollector) RecordCacheHit(string)           {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)          {}
