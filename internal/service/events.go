package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/metrics"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
)

// EventPublisher hands booking events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.BookingEvent) error { return nil }

const publishTimeout = 3 * time.Second

// publish is best effort: the command has already committed, so failures
// are logged and counted but never returned.
func publish(ctx context.Context, pub EventPublisher, ev queue.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, ev); err != nil {
		metrics.EventPublishFailures.Inc()
		logging.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"event_type": ev.Type,
			"booking_id": ev.BookingRef,
		}).Warn("could not publish booking event")
	}
}
