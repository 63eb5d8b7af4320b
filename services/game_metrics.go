package services

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mafia_games_created_total",
			Help: "Total number of games created",
		},
	)
	gamesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mafia_games_active",
			Help: "Number of games held in memory",
		},
	)
	phaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafia_phase_transitions_total",
			Help: "Total number of phase transitions by entered phase",
		},
		[]string{"phase"},
	)
	eliminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafia_eliminations_total",
			Help: "Total number of players eliminated by the phase they died in",
		},
		[]string{"phase"},
	)
	doctorSaves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mafia_doctor_saves_total",
			Help: "Total number of night attacks negated by the doctor",
		},
	)
	gamesEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mafia_games_ended_total",
			Help: "Total number of finished games by winning side",
		},
		[]string{"winner"},
	)
)

// InitGameMetrics registers the game metrics. Call this from main.go
func InitGameMetrics() {
	prometheus.MustRegister(gamesCreated)
	prometheus.MustRegister(gamesActive)
	prometheus.MustRegister(phaseTransitions)
	prometheus.MustRegister(eliminations)
	prometheus.MustRegister(doctorSaves)
	prometheus.MustRegister(gamesEnded)
}
