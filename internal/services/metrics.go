package services

import "github.com/prometheus/client_golang/prometheus"

// Trash activity counters. Label cardinality is bounded by the fixed scope
// and kind sets.
var (
	softDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papelera_soft_deleted_total",
			Help: "Rows moved to the trash, by deletion scope.",
		},
		[]string{"scope"},
	)

	recovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papelera_recovered_total",
			Help: "Rows taken out of the trash, by recovery scope.",
		},
		[]string{"scope"},
	)

	purged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papelera_purged_total",
			Help: "Rows permanently removed by the retention sweep, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(softDeleted, recovered, purged)
}
