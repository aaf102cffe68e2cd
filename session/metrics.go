package session

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the per-session counters exposed by the runtime.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsExited    prometheus.Counter
	SectionsAdvanced  prometheus.Counter
	FocusFailures     prometheus.Counter
	WakeLockFailures  prometheus.Counter
}

// NewMetrics builds the counter set and registers it with reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sessions_started_total",
			Help: "Total number of practice sessions started.",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sessions_completed_total",
			Help: "Total number of practice sessions that finished every section.",
		}),
		SessionsExited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sessions_exited_total",
			Help: "Total number of practice sessions ended before completion.",
		}),
		SectionsAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_sections_advanced_total",
			Help: "Total number of section advances, automatic or manual.",
		}),
		FocusFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_focus_failures_total",
			Help: "Total number of sections whose region never became resolvable.",
		}),
		WakeLockFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "practice_wakelock_failures_total",
			Help: "Total number of failed wake lock acquisitions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.SessionsStarted,
			m.SessionsCompleted,
			m.SessionsExited,
			m.SectionsAdvanced,
			m.FocusFailures,
			m.WakeLockFailures,
		)
	}
	return m
}
