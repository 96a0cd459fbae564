package core

import "context"

// MetricsRecorder receives one counter and one duration histogram per issue
// or verify call, tagged by operation, status, kind and error code.
type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

const metricPrefix = "usersig."

func operationCounterName(operation string) string {
	return metricPrefix + operation + ".total"
}

func operationDurationName(operation string) string {
	return metricPrefix + operation + ".duration_ms"
}

// NopMetricsRecorder drops every observation.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}
