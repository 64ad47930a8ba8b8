package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Transition results recorded on workflow_transitions_total.
const (
	ResultApplied           = "applied"
	ResultForbidden         = "forbidden"
	ResultInvalidTransition = "invalid_transition"
	ResultValidationFailed  = "validation_failed"
	ResultNotFound          = "not_found"
	ResultError             = "error"
)

// WorkflowMetrics counts parts order workflow actions by outcome.
type WorkflowMetrics struct {
	transitions *prometheus.CounterVec
	completions *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer, namespace string) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_transitions_total",
		Help:      "Parts order workflow actions by action and result.",
	}, []string{"action", "result"})
	completions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repair_completions_total",
		Help:      "Repair complete requests by result.",
	}, []string{"result"})
	reg.MustRegister(transitions, completions)
	return &WorkflowMetrics{
		transitions: transitions,
		completions: completions,
	}
}

// ObserveTransition increments the counter for action and result.
func (m *WorkflowMetrics) ObserveTransition(action, result string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(action), normalizeLabel(result)).Inc()
}

// ObserveCompletion increments the repair completion counter for result.
func (m *WorkflowMetrics) ObserveCompletion(result string) {
	if m == nil || m.completions == nil {
		return
	}
	m.completions.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
