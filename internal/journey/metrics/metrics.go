package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	JourneysStarted      prometheus.Counter
	JourneysCompleted    prometheus.Counter
	JourneysReset        *prometheus.CounterVec
	OTPAttempts          prometheus.Counter
	OTPLockouts          prometheus.Counter
	VerificationOutcomes *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registerer. Tests use a
// private registry to read counter values in isolation.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JourneysStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_journeys_started_total",
			Help: "Total number of onboarding journeys started",
		}),
		JourneysCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_journeys_completed_total",
			Help: "Total number of onboarding journeys reaching the complete step",
		}),
		JourneysReset: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_journeys_reset_total",
			Help: "Total number of journeys forced back to entry, by reason",
		}, []string{"reason"}),
		OTPAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_otp_attempts_total",
			Help: "Total number of OTP code submissions",
		}),
		OTPLockouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_otp_lockouts_total",
			Help: "Total number of OTP challenges locked out after exhausting attempts",
		}),
		VerificationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_verification_outcomes_total",
			Help: "Verification sub-flow resolutions by strategy and outcome",
		}, []string{"strategy", "outcome"}),
	}
}

func (m *Metrics) IncrementJourneysStarted() {
	m.JourneysStarted.Inc()
}

func (m *Metrics) IncrementJourneysCompleted() {
	m.JourneysCompleted.Inc()
}

func (m *Metrics) IncrementJourneysReset(reason string) {
	m.JourneysReset.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementOTPAttempts() {
	m.OTPAttempts.Inc()
}

func (m *Metrics) IncrementOTPLockouts() {
	m.OTPLockouts.Inc()
}

func (m *Metrics) ObserveVerificationOutcome(strategy, outcome string) {
	m.VerificationOutcomes.WithLabelValues(strategy, outcome).Inc()
}
