package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the capsule module.
type Metrics struct {
	CapsulesCreated      prometheus.Counter
	UnlockOutcomes       *prometheus.CounterVec
	GuardianRegistration *prometheus.CounterVec
	GuardianUnlockDenied prometheus.Counter
	OperationDuration    *prometheus.HistogramVec
}

// New registers the capsule metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CapsulesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "timecapsule_capsules_created_total",
			Help: "Total number of capsules created",
		}),
		UnlockOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timecapsule_unlock_outcomes_total",
			Help: "Unlock attempts by outcome (released, not_ready, emergency_released, force_released)",
		}, []string{"status"}),
		GuardianRegistration: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timecapsule_guardian_registrations_total",
			Help: "Guardian registrations by outcome (added, already_exists)",
		}, []string{"status"}),
		GuardianUnlockDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "timecapsule_guardian_unlock_denied_total",
			Help: "Emergency unlock attempts refused because the caller is not a guardian",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timecapsule_operation_duration_seconds",
			Help:    "Duration of capsule service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCapsuleCreated() {
	m.CapsulesCreated.Inc()
}

func (m *Metrics) IncrementUnlockOutcome(status string) {
	m.UnlockOutcomes.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementGuardianRegistration(status string) {
	m.GuardianRegistration.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementGuardianUnlockDenied() {
	m.GuardianUnlockDenied.Inc()
}

// ObserveOperation records the duration of op.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
