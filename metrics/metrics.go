// Package metrics hält die Prometheus-Zähler der Toxin-Suche.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Lookups zählt Datenbankabfragen nach Quelle und Ergebnis (found, absent, error, cached).
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxin_lookups_total",
			Help: "Total number of structural key lookups by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	// Retries zählt Wiederholungen nach HTTP-Status.
	Retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxin_lookup_retries_total",
			Help: "Total number of retried lookups by source and HTTP status.",
		},
		[]string{"source", "status"},
	)

	CompoundsClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxin_compounds_classified_total",
			Help: "Total number of classified compounds by method and status.",
		},
		[]string{"method", "status"},
	)

	ScansCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "toxin_scans_completed_total",
			Help: "Total number of completed corpus scans.",
		},
	)
)

func init() {
	prometheus.MustRegister(Lookups, Retries, CompoundsClassified, ScansCompleted)
}
