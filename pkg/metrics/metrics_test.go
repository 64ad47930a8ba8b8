package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestWorkflowMetricsCountsByActionAndResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewWorkflowMetrics(reg, "ppg")
	metrics.ObserveTransition("approved", ResultApplied)
	metrics.ObserveTransition("approved", ResultApplied)
	metrics.ObserveTransition("shipped", ResultForbidden)
	metrics.ObserveCompletion(ResultApplied)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ppg_workflow_transitions_total", "action", "approved"); err != nil {
		t.Fatalf("fetch approved: %v", err)
	} else if got != 2 {
		t.Fatalf("expected approved=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ppg_workflow_transitions_total", "result", ResultForbidden); err != nil {
		t.Fatalf("fetch forbidden: %v", err)
	} else if got != 1 {
		t.Fatalf("expected forbidden=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ppg_repair_completions_total", "result", ResultApplied); err != nil {
		t.Fatalf("fetch completions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected completions=1, got %f", got)
	}
}

func TestWorkflowMetricsNilSafe(t *testing.T) {
	var metrics *WorkflowMetrics
	metrics.ObserveTransition("approved", ResultApplied)
	NewWorkflowMetrics(nil, "ppg").ObserveCompletion(ResultApplied)
}

func TestOutboxMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxMetrics(reg, "ppg")
	metrics.ObserveBatch("workflow", 250*time.Millisecond)
	metrics.IncPublished("parts_order_transitioned")
	metrics.IncFailed("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ppg_outbox_events_published_total", "event_type", "parts_order_transitioned"); err != nil {
		t.Fatalf("fetch published: %v", err)
	} else if got != 1 {
		t.Fatalf("expected published=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ppg_outbox_events_failed_total", "event_type", "unknown"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ppg_outbox_batch_duration_seconds", "publisher", "workflow"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
