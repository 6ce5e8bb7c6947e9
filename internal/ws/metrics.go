package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConnectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_ws_connections",
			Help: "Currently open websocket connections",
		},
	)
	QueueDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_queue_depth",
			Help: "Players currently waiting in the matchmaking queue",
		},
	)
	MatchesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_matches_started_total",
			Help: "Total matches created by the matchmaker",
		},
	)
	MatchesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_matches_finished_total",
			Help: "Total matches finished, by reason",
		},
		[]string{"reason"},
	)
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_actions_total",
			Help: "Total combat actions accepted, by kind",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsGauge, QueueDepthGauge, MatchesStarted, MatchesFinished, ActionsTotal)
}
