package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/metrics"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

// maxReferenceAttempts bounds retries after a booking reference collision.
const maxReferenceAttempts = 3

// CreateBookingInput is a customer's booking request.
type CreateBookingInput struct {
	MatchID      int64  `json:"matchId"`
	TicketTypeID int64  `json:"ticketTypeId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Quantity     int    `json:"quantity"`
}

func (in *CreateBookingInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

func (in CreateBookingInput) validate() error {
	switch {
	case in.FullName == "":
		return invalidf("full name is required")
	case in.Email == "":
		return invalidf("email is required")
	case in.Phone == "":
		return invalidf("phone is required")
	case in.Quantity <= 0:
		return invalidf("quantity must be positive")
	case in.MatchID <= 0:
		return invalidf("match id is required")
	case in.TicketTypeID <= 0:
		return invalidf("ticket type id is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalidf("email %q is not valid", in.Email)
	}
	return nil
}

// Bookings owns the booking lifecycle: creation with its seat reservation,
// payment proof submission and admin status changes.
type Bookings struct {
	store     repository.Store
	inventory *Inventory
	fees      FeePolicy
	newRef    ReferenceFunc
	events    EventPublisher
}

// NewBookings wires the lifecycle manager.  A nil newRef uses the IPLBK
// generator and a nil events publisher drops events.
func NewBookings(store repository.Store, inventory *Inventory, fees FeePolicy, newRef ReferenceFunc, events EventPublisher) *Bookings {
	if store == nil || inventory == nil {
		panic("nil dependency passed to NewBookings")
	}
	if newRef == nil {
		newRef = NewReferenceGenerator("IPLBK")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &Bookings{store: store, inventory: inventory, fees: fees, newRef: newRef, events: events}
}

// Create reserves seats and records a pending booking atomically.  On any
// failure no seats are taken and no booking exists.
func (s *Bookings) Create(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Booking{}, err
	}

	var (
		b   model.Booking
		err error
	)
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		b, err = s.create(ctx, in)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		logging.FromContext(ctx).WithField("attempt", attempt).Warn("booking reference collision; retrying")
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return model.Booking{}, fmt.Errorf("allocate booking reference: %w", err)
	}
	if err != nil {
		return model.Booking{}, err
	}

	metrics.BookingsCreated.Inc()
	metrics.SeatsReserved.Add(float64(b.Quantity))
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":     b.BookingRef,
		"ticket_type_id": b.TicketTypeID,
		"quantity":       b.Quantity,
		"total_amount":   b.TotalAmount,
	}).Info("booking created")
	publish(ctx, s.events, queue.NewBookingEvent(queue.EventBookingCreated, b))
	return b, nil
}

func (s *Bookings) create(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	var b model.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		match, err := s.store.GetMatch(ctx, in.MatchID)
		if err != nil {
			return storeErr(err, "match", in.MatchID)
		}
		if !match.IsActive {
			return invalidf("match %d is not open for booking", match.ID)
		}
		tt, err := s.store.GetTicketType(ctx, in.TicketTypeID)
		if err != nil {
			return storeErr(err, "ticket type", in.TicketTypeID)
		}
		if tt.MatchID != match.ID {
			return invalidf("ticket type %d does not belong to match %d", tt.ID, match.ID)
		}

		amounts, err := s.fees.Quote(tt.Price, in.Quantity)
		if err != nil {
			return err
		}
		if err := s.inventory.Reserve(ctx, tt.ID, in.Quantity); err != nil {
			return err
		}

		b = model.Booking{
			BookingRef:   s.newRef(),
			MatchID:      match.ID,
			TicketTypeID: tt.ID,
			FullName:     in.FullName,
			Email:        in.Email,
			Phone:        in.Phone,
			Quantity:     in.Quantity,
			BaseAmount:   amounts.Base,
			GST:          amounts.GST,
			ServiceFee:   amounts.ServiceFee,
			TotalAmount:  amounts.Total,
			Status:       model.BookingPending,
		}
		err = s.store.CreateBooking(ctx, &b)
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return storeErr(err, "booking", b.BookingRef)
		}
		// ErrDuplicate is passed through untranslated so Create can retry.
		return err
	})
	return b, err
}

// AttachPayment records the customer's payment proof and moves a pending
// booking to payment_pending.  Quantity and amounts are left untouched.
func (s *Bookings) AttachPayment(ctx context.Context, ref, method, utr string) (model.Booking, error) {
	ref = strings.TrimSpace(ref)
	method = strings.ToLower(strings.TrimSpace(method))
	utr = strings.TrimSpace(utr)
	switch {
	case ref == "":
		return model.Booking{}, invalidf("booking id is required")
	case method == "":
		return model.Booking{}, invalidf("payment method is required")
	case utr == "":
		return model.Booking{}, invalidf("utr number is required")
	case len(method) > model.MaxPaymentMethodLen:
		return model.Booking{}, invalidf("payment method must be at most %d characters", model.MaxPaymentMethodLen)
	}

	b, err := s.store.UpdateBookingPayment(ctx, ref, method, utr)
	if err != nil {
		return model.Booking{}, storeErr(err, "booking", ref)
	}
	if model.IsFinal(b.Status) {
		return model.Booking{}, fmt.Errorf("%w: booking %s is already %s", ErrInvalidStatus, ref, b.Status)
	}

	logging.FromContext(ctx).WithField("booking_id", ref).Info("payment details submitted")
	publish(ctx, s.events, queue.NewBookingEvent(queue.EventPaymentSubmitted, b))
	return b, nil
}

// adminStatuses are the values an admin may set.
var adminStatuses = map[string]bool{
	model.BookingPending:  true,
	model.BookingApproved: true,
	model.BookingRejected: true,
}

// SetStatus applies an admin decision.  Approved and rejected bookings are
// final: repeating the current status is a no-op, anything else fails with
// ErrInvalidStatus.  Rejection does not return seats to inventory.
func (s *Bookings) SetStatus(ctx context.Context, ref, status string) (model.Booking, error) {
	ref = strings.TrimSpace(ref)
	status = strings.ToLower(strings.TrimSpace(status))
	if !adminStatuses[status] {
		return model.Booking{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var before, after model.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.store.GetBookingForUpdate(ctx, ref)
		if err != nil {
			return storeErr(err, "booking", ref)
		}
		if model.IsFinal(before.Status) {
			if before.Status == status {
				after = before
				return nil
			}
			return fmt.Errorf("%w: booking %s is already %s", ErrInvalidStatus, ref, before.Status)
		}
		after, err = s.store.UpdateBookingStatus(ctx, ref, status)
		if err != nil {
			return storeErr(err, "booking", ref)
		}
		if after.Status != status {
			// Finalised concurrently between the read and the update.
			return fmt.Errorf("%w: booking %s is already %s", ErrInvalidStatus, ref, after.Status)
		}
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	if before.Status == after.Status {
		return after, nil
	}

	metrics.BookingStatusChanges.WithLabelValues(status).Inc()
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": ref,
		"from":       before.Status,
		"to":         after.Status,
	}).Info("booking status changed")
	ev := queue.NewBookingEvent(queue.EventStatusChanged, after)
	ev.PreviousStatus = before.Status
	publish(ctx, s.events, ev)
	return after, nil
}

// Get returns one booking by its public reference.
func (s *Bookings) Get(ctx context.Context, ref string) (model.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Booking{}, invalidf("booking id is required")
	}
	b, err := s.store.GetBooking(ctx, ref)
	if err != nil {
		return model.Booking{}, storeErr(err, "booking", ref)
	}
	return b, nil
}

// ListByEmail returns a customer's bookings, newest first.  The email must
// match exactly.
func (s *Bookings) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidf("email is required")
	}
	return s.store.ListBookingsByEmail(ctx, email)
}

// List returns every booking, newest first.
func (s *Bookings) List(ctx context.Context) ([]model.Booking, error) {
	return s.store.ListBookings(ctx)
}
