package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the table's Prometheus collectors. A fresh registry
// per server keeps tests isolated from the default global one.
type Metrics struct {
	Registry *prometheus.Registry

	HandsPlayed    prometheus.Counter
	Actions        *prometheus.CounterVec
	Nacks          prometheus.Counter
	Disconnects    prometheus.Counter
	SeatsConnected prometheus.Gauge
	PotChips       prometheus.Gauge
}

// NewMetrics builds and registers the table collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HandsPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablewire_hands_played_total",
			Help: "Hands dealt to completion, including uncontested ones.",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tablewire_actions_total",
			Help: "Accepted betting actions by kind.",
		}, []string{"action"}),
		Nacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablewire_nacks_total",
			Help: "Rejected client actions.",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablewire_disconnects_total",
			Help: "Seats lost to closed connections.",
		}),
		SeatsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tablewire_seats_connected",
			Help: "Seats currently bound to a live connection.",
		}),
		PotChips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tablewire_pot_chips",
			Help: "Chips in the pot right now.",
		}),
	}
	reg.MustRegister(
		m.HandsPlayed,
		m.Actions,
		m.Nacks,
		m.Disconnects,
		m.SeatsConnected,
		m.PotChips,
		collectors.NewGoCollector(),
	)
	return m
}
