// Package metrics holds the business counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reservation outcomes.
const (
	ReservationReserved     = "reserved"
	ReservationInsufficient = "insufficient"
	ReservationNotFound     = "not_found"
)

var (
	Reservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "reservations_total",
		Help:      "Seat reservation attempts by outcome.",
	}, []string{"result"})

	SeatsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "seats_reserved_total",
		Help:      "Seats taken out of inventory by committed bookings.",
	})

	SeatsRestocked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "seats_restocked_total",
		Help:      "Seats requested back into inventory by admins.",
	})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "bookings_created_total",
		Help:      "Bookings committed.",
	})

	BookingStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "booking_status_changes_total",
		Help:      "Admin status changes by target status.",
	}, []string{"status"})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ticketing",
		Name:      "event_publish_failures_total",
		Help:      "Booking events that could not be handed to the broker.",
	})
)
