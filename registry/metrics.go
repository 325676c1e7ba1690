package registry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/f3rmion/frostcoord/session"
)

const (
	eventRegistered = "registered"
	eventRemoved    = "removed"
	eventExpired    = "expired"
	eventEvicted    = "evicted"

	resultAccepted = "accepted"
)

// Metrics exports session lifecycle counters. It implements
// [session.Observer]; pass it to coordinators with [session.WithObserver]
// to count contributions and phase transitions.
type Metrics struct {
	sessions      *prometheus.CounterVec
	active        prometheus.Gauge
	contributions *prometheus.CounterVec
	transitions   *prometheus.CounterVec
}

var _ session.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frostcoord_sessions_total",
			Help: "Registry session events by kind.",
		}, []string{"event"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frostcoord_sessions_active",
			Help: "Sessions currently held by the registry.",
		}),
		contributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frostcoord_contributions_total",
			Help: "Commitments and signature shares by round and result.",
		}, []string{"round", "result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frostcoord_phase_transitions_total",
			Help: "Session phase transitions by target phase.",
		}, []string{"phase"}),
	}
	for _, c := range []prometheus.Collector{m.sessions, m.active, m.contributions, m.transitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) PhaseChanged(from, to session.Phase) {
	m.transitions.WithLabelValues(to.String()).Inc()
}

func (m *Metrics) ContributionAccepted(round session.Round) {
	m.contributions.WithLabelValues(round.String(), resultAccepted).Inc()
}

// ContributionRejected counts a rejection under its reason, e.g.
// "duplicate".
func (m *Metrics) ContributionRejected(round session.Round, reason string) {
	m.contributions.WithLabelValues(round.String(), reason).Inc()
}

// Sessions returns the counter for a registry event: "registered",
// "removed", "expired" or "evicted".
func (m *Metrics) Sessions(event string) prometheus.Counter {
	return m.sessions.WithLabelValues(event)
}

// Active returns the live-session gauge.
func (m *Metrics) Active() prometheus.Gauge { return m.active }

// Contributions returns the counter for one round and result.
func (m *Metrics) Contributions(round, result string) prometheus.Counter {
	return m.contributions.WithLabelValues(round, result)
}

// Transitions returns the counter of transitions into phase.
func (m *Metrics) Transitions(phase session.Phase) prometheus.Counter {
	return m.transitions.WithLabelValues(phase.String())
}
