// Package metrics defines the Prometheus collectors for the presence service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Presence registry metrics
var (
	// OnlinePlayers tracks the current number of non-expired presence records
	OnlinePlayers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_online_players",
			Help: "Current number of players with a live presence record",
		},
	)

	// HeartbeatsTotal tracks heartbeat requests by outcome
	HeartbeatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_heartbeats_total",
			Help: "Heartbeat requests by outcome (accepted/invalid/rate_limited)",
		},
		[]string{"outcome"},
	)

	// JoinsTotal tracks first-time heartbeats (new presence records)
	JoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_joins_total",
			Help: "Heartbeats that created a new presence record",
		},
	)
)

// Reaper metrics
var (
	// SweepsTotal tracks completed reaper sweeps
	SweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_sweeps_total",
			Help: "Completed expiry sweeps",
		},
	)

	// ReapedTotal tracks records removed by expiry sweeps
	ReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_reaped_total",
			Help: "Presence records removed due to staleness",
		},
	)
)

// Live feed metrics
var (
	// FeedClients tracks connected live-feed websocket clients
	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_feed_clients",
			Help: "Currently connected live-feed websocket clients",
		},
	)

	// FeedSlowClientsEvicted tracks feed clients dropped for not keeping up
	FeedSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_feed_slow_clients_evicted_total",
			Help: "Live-feed clients evicted because their send buffer was full",
		},
	)
)

// Heartbeat outcome label values.
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
)
