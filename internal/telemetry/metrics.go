package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"ecoquiz-duel/internal/event"
	"ecoquiz-duel/internal/models"
)

const namespace = "duel"

type Metrics struct {
	reg prometheus.Registerer

	activeGames       prometheus.Gauge
	waitingPlayers    prometheus.Gauge
	gamesStarted      prometheus.Counter
	gamesFinished     *prometheus.CounterVec
	questionsResolved *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reg: reg,
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Games currently in the live session table.",
		}),
		waitingPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiting_players",
			Help:      "Players holding the waiting slot.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games created by the matchmaker.",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games removed from the session table, by reason.",
		}, []string{"reason"}),
		questionsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_resolved_total",
			Help:      "Questions closed, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.activeGames, m.waitingPlayers, m.gamesStarted, m.gamesFinished, m.questionsResolved)
	return m
}

// Subscribe feeds the counters from game events and exports the bus's
// dropped deliveries.
func (m *Metrics) Subscribe(eb *event.Bus) {
	m.reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_deliveries_dropped_total",
		Help:      "Event deliveries skipped because every bus worker was busy.",
	}, func() float64 {
		return float64(eb.Dropped())
	}))

	eb.Subscribe(models.EventNameGameMatched, func(context.Context, event.Event) error {
		m.gamesStarted.Inc()
		return nil
	})
	eb.Subscribe(models.EventNameGameEnded, func(context.Context, event.Event) error {
		m.gamesFinished.WithLabelValues("completed").Inc()
		return nil
	})
	eb.Subscribe(models.EventNameGameAbandoned, func(context.Context, event.Event) error {
		m.gamesFinished.WithLabelValues("abandoned").Inc()
		return nil
	})
	eb.Subscribe(models.EventNameQuestionResolved, func(_ context.Context, e event.Event) error {
		m.questionsResolved.WithLabelValues(e.(models.EventQuestionResolved).Outcome).Inc()
		return nil
	})
}

// ObserveStats is safe on nil Metrics.
func (m *Metrics) ObserveStats(s models.Stats) {
	if m == nil {
		return
	}
	m.activeGames.Set(float64(s.ActiveGames))
	m.waitingPlayers.Set(float64(s.WaitingPlayers))
}
