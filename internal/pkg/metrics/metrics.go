package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservations_created_total",
			Help:      "Count of reservations successfully created.",
		},
	)

	reservationsCanceled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservations_canceled_total",
			Help:      "Count of reservations canceled.",
		},
	)

	reservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labreserve",
			Name:      "reservations_rejected_total",
			Help:      "Count of reservation requests rejected, by reason.",
		},
		[]string{"reason"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationsCanceled, reservationsRejected)
	})
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncReservationCanceled() {
	reservationsCanceled.Inc()
}

func IncReservationRejected(reason string) {
	reservationsRejected.WithLabelValues(reason).Inc()
}
