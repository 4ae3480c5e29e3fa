package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FlowMetrics records wizard activity for the cancellation flow.
type FlowMetrics struct {
	saveDuration *prometheus.HistogramVec
	saves        *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	outcomes     *prometheus.CounterVec
	discounts    *prometheus.CounterVec
}

// NewFlowMetrics registers the wizard metrics on the provided registerer.
func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	if reg == nil {
		return &FlowMetrics{}
	}
	saveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cancelflow_save_duration_seconds",
		Help:    "Duration of progress save operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cancelflow_saves_total",
		Help: "Accepted progress saves by resolved step.",
	}, []string{"step"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cancelflow_rejections_total",
		Help: "Rejected progress saves by offending field.",
	}, []string{"field"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cancelflow_outcomes_total",
		Help: "Terminal wizard outcomes.",
	}, []string{"outcome"})
	discounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cancelflow_discounts_total",
		Help: "Downsell discount applications by result.",
	}, []string{"result"})
	reg.MustRegister(saveDuration, saves, rejections, outcomes, discounts)
	return &FlowMetrics{
		saveDuration: saveDuration,
		saves:        saves,
		rejections:   rejections,
		outcomes:     outcomes,
		discounts:    discounts,
	}
}

// ObserveSaveDuration records the duration of a progress save.
func (f *FlowMetrics) ObserveSaveDuration(step string, duration time.Duration) {
	if f == nil || f.saveDuration == nil {
		return
	}
	f.saveDuration.WithLabelValues(normalizeLabel(step)).Observe(duration.Seconds())
}

// IncSave increments the save counter for the resolved step.
func (f *FlowMetrics) IncSave(step string) {
	if f == nil || f.saves == nil {
		return
	}
	f.saves.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncRejection increments the rejection counter for the offending field.
func (f *FlowMetrics) IncRejection(field string) {
	if f == nil || f.rejections == nil {
		return
	}
	f.rejections.WithLabelValues(normalizeLabel(field)).Inc()
}

// IncOutcome increments the terminal outcome counter.
func (f *FlowMetrics) IncOutcome(outcome string) {
	if f == nil || f.outcomes == nil {
		return
	}
	f.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDiscount increments the discount application counter.
func (f *FlowMetrics) IncDiscount(result string) {
	if f == nil || f.discounts == nil {
		return
	}
	f.discounts.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
