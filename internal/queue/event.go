// Package queue defines the booking events exchanged over RabbitMQ, the
// publisher used by the service layer and the audit consumer.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

// ExchangeName is the durable topic exchange all booking events go to.
const ExchangeName = "booking.events"

// Routing keys, one per event type.
const (
	EventBookingCreated   = "booking.created"
	EventPaymentSubmitted = "booking.payment_submitted"
	EventStatusChanged    = "booking.status_changed"
)

// BookingEvent is published after a booking command commits.  It carries
// enough for downstream consumers to log or notify without querying the
// primary database.
type BookingEvent struct {
	EventID        string `json:"event_id"`
	Type           string `json:"type"`
	BookingRef     string `json:"booking_id"`
	MatchID        int64  `json:"match_id"`
	TicketTypeID   int64  `json:"ticket_type_id"`
	Email          string `json:"email"`
	Quantity       int    `json:"quantity"`
	TotalAmount    int64  `json:"total_amount"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// NewBookingEvent snapshots b under a fresh event id.
func NewBookingEvent(eventType string, b model.Booking) BookingEvent {
	return BookingEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		BookingRef:   b.BookingRef,
		MatchID:      b.MatchID,
		TicketTypeID: b.TicketTypeID,
		Email:        b.Email,
		Quantity:     b.Quantity,
		TotalAmount:  b.TotalAmount,
		Status:       b.Status,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
