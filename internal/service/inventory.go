package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/metrics"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

// InventoryStore is the slice of storage the engine needs.
type InventoryStore interface {
	DecrementAvailable(ctx context.Context, id int64, qty int) error
	IncrementAvailable(ctx context.Context, id int64, qty int) (model.TicketType, error)
}

// Inventory is the only component that changes available seat counts.
type Inventory struct {
	store InventoryStore
}

func NewInventory(store InventoryStore) *Inventory {
	if store == nil {
		panic("nil store passed to NewInventory")
	}
	return &Inventory{store: store}
}

// Reserve takes qty seats from a ticket type in one conditional step: it
// either removes all of them or changes nothing.  Called with a context
// from Store.WithTx the decrement commits or rolls back with the rest of
// the transaction.
func (inv *Inventory) Reserve(ctx context.Context, ticketTypeID int64, qty int) error {
	if qty <= 0 {
		return invalidf("quantity must be positive")
	}
	err := inv.store.DecrementAvailable(ctx, ticketTypeID, qty)
	switch {
	case err == nil:
		metrics.Reservations.WithLabelValues(metrics.ReservationReserved).Inc()
		return nil
	case errors.Is(err, repository.ErrInsufficientSeats):
		metrics.Reservations.WithLabelValues(metrics.ReservationInsufficient).Inc()
		return ErrInsufficientInventory
	case errors.Is(err, repository.ErrNotFound):
		metrics.Reservations.WithLabelValues(metrics.ReservationNotFound).Inc()
	}
	return storeErr(err, "ticket type", ticketTypeID)
}

// Restock returns up to qty seats to a ticket type, never exceeding its
// total.  It is an explicit admin action; rejecting a booking does not
// call it.
func (inv *Inventory) Restock(ctx context.Context, ticketTypeID int64, qty int) (model.TicketType, error) {
	if qty <= 0 {
		return model.TicketType{}, invalidf("quantity must be positive")
	}
	t, err := inv.store.IncrementAvailable(ctx, ticketTypeID, qty)
	if err != nil {
		return model.TicketType{}, storeErr(err, "ticket type", ticketTypeID)
	}
	metrics.SeatsRestocked.Add(float64(qty))
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"ticket_type_id":  ticketTypeID,
		"requested":       qty,
		"available_seats": t.AvailableSeats,
		"sold":            t.Sold(),
	}).Info("ticket type restocked")
	return t, nil
}
