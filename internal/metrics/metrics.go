// Package metrics exposes Prometheus instruments for the booking
// domain.  Counters are bumped by the handlers and the lapse sweeper;
// the occupancy gauge is refreshed whenever the analytics endpoint
// recomputes it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Total booking operations by kind and outcome",
		},
		[]string{"operation", "status"},
	)

	lapseCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_lapse_cancellations_total",
			Help: "Bookings auto-cancelled by the attendance-lapse sweeper",
		},
	)

	seatOccupancyRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_occupancy_rate",
			Help: "Fraction of bookable seats currently occupied",
		},
	)
)

// TrackOperation records one booking-domain operation.  operation is
// one of book, cancel, attendance, swap_request, swap_approve,
// swap_reject; status is ok or error.
func TrackOperation(operation, status string) {
	bookingOperations.WithLabelValues(operation, status).Inc()
}

// TrackLapseCancellation counts one automatic lapse cancellation.
func TrackLapseCancellation() {
	lapseCancellations.Inc()
}

// SetOccupancy updates the occupancy gauge from seat counts.
func SetOccupancy(total, occupied int) {
	if total <= 0 {
		seatOccupancyRate.Set(0)
		return
	}
	seatOccupancyRate.Set(float64(occupied) / float64(total))
}
