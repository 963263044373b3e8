package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yigit/regwizard/internal/app/models"
)

// Metrics tracks form session activity.
type Metrics struct {
	SessionsCreated    prometheus.Counter
	SessionsExpired    prometheus.Counter
	StepTransitions    *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	LiveSessions       prometheus.Gauge
}

// New creates the form metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "regwizard_sessions_created_total",
			Help: "Total number of form sessions started",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "regwizard_sessions_expired_total",
			Help: "Total number of idle form sessions dropped",
		}),
		StepTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regwizard_step_transitions_total",
			Help: "Wizard navigation attempts by action and result",
		}, []string{"action", "result"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regwizard_submissions_total",
			Help: "Submit attempts by outcome",
		}, []string{"outcome"}),
		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "regwizard_validation_duration_seconds",
			Help:    "Duration of schema validation runs",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		LiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "regwizard_live_sessions",
			Help: "Form sessions currently held in memory",
		}),
	}
}

// IncrementSessionsCreated records a new form session.
func (m *Metrics) IncrementSessionsCreated() {
	m.SessionsCreated.Inc()
}

// AddSessionsExpired records idle sessions removed by the janitor.
func (m *Metrics) AddSessionsExpired(n int) {
	m.SessionsExpired.Add(float64(n))
}

// ObserveNext records a Next attempt as advanced or refused.
func (m *Metrics) ObserveNext(advanced bool) {
	result := "refused"
	if advanced {
		result = "advanced"
	}
	m.StepTransitions.WithLabelValues("next", result).Inc()
}

// ObserveBack records a Back transition, which cannot be refused.
func (m *Metrics) ObserveBack() {
	m.StepTransitions.WithLabelValues("back", "done").Inc()
}

// ObserveSubmission records a submit outcome.
func (m *Metrics) ObserveSubmission(outcome models.SubmissionOutcome) {
	m.Submissions.WithLabelValues(string(outcome)).Inc()
}

// ObserveValidation records how long a validation run took.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveValidation(start time.Time) {
	m.ValidationDuration.Observe(time.Since(start).Seconds())
}

// SetLiveSessions records the current number of sessions.
func (m *Metrics) SetLiveSessions(n int) {
	m.LiveSessions.Set(float64(n))
}
