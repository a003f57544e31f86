package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/match-ticket-booking/internal/metrics"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
	"github.com/iliyamo/match-ticket-booking/internal/repository/memory"
)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General Stand", 500, 100)
	before := testutil.ToFloat64(metrics.BookingsCreated)

	b, err := f.bookings.Create(context.Background(), bookingInput(f.match.ID, tt.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.Regexp(t, `^IPLBK\d+`, b.BookingRef)
	assert.EqualValues(t, 1000, b.BaseAmount)
	assert.EqualValues(t, 180, b.GST)
	assert.EqualValues(t, 20, b.ServiceFee)
	assert.EqualValues(t, 1200, b.TotalAmount)
	assert.Nil(t, b.PaymentMethod)
	assert.Equal(t, 98, f.available(t, tt.ID))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BookingsCreated))
	assert.Equal(t, []string{queue.EventBookingCreated}, f.events.types())

	got, err := f.bookings.Get(context.Background(), b.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestCreateBookingSecondRequestExceedsRemaining(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "Corporate Box", 5000, 10)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 6))
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 6))
	require.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Equal(t, "not enough seats available", err.Error())

	assert.Equal(t, 4, f.available(t, tt.ID))
	all, err := f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBookingExhaustsInventory(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "North Stand", 800, 3)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, f.available(t, tt.ID))

	_, err = f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Equal(t, 0, f.available(t, tt.ID))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	other, err := f.catalog.CreateMatch(context.Background(), CreateMatchInput{
		Team1: "Mumbai Indians", Team2: "Chennai Super Kings", Venue: "Mumbai",
		Stadium: "Wankhede Stadium", Date: "12 April 2025", Time: "7:30 PM IST",
	})
	require.NoError(t, err)
	inactive := false
	closed, err := f.catalog.CreateMatch(context.Background(), CreateMatchInput{
		Team1: "KKR", Team2: "SRH", Venue: "Kolkata", Stadium: "Eden Gardens",
		Date: "14 April 2025", Time: "3:30 PM IST", IsActive: &inactive,
	})
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		want   error
	}{
		{"zero quantity", func(in *CreateBookingInput) { in.Quantity = 0 }, ErrInvalidInput},
		{"negative quantity", func(in *CreateBookingInput) { in.Quantity = -2 }, ErrInvalidInput},
		{"missing name", func(in *CreateBookingInput) { in.FullName = "  " }, ErrInvalidInput},
		{"missing email", func(in *CreateBookingInput) { in.Email = "" }, ErrInvalidInput},
		{"bad email", func(in *CreateBookingInput) { in.Email = "asha" }, ErrInvalidInput},
		{"missing phone", func(in *CreateBookingInput) { in.Phone = "" }, ErrInvalidInput},
		{"unknown ticket type", func(in *CreateBookingInput) { in.TicketTypeID = 999 }, ErrNotFound},
		{"unknown match", func(in *CreateBookingInput) { in.MatchID = 999 }, ErrNotFound},
		{"ticket type of another match", func(in *CreateBookingInput) { in.MatchID = other.ID }, ErrInvalidInput},
		{"inactive match", func(in *CreateBookingInput) { in.MatchID = closed.ID }, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := bookingInput(f.match.ID, tt.ID, 1)
			tc.mutate(&in)
			_, err := f.bookings.Create(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 10, f.available(t, tt.ID))
		})
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "East Stand", 650, 10)

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 40; i++ {
		g.Go(func() error {
			_, err := f.bookings.Create(context.Background(), bookingInput(f.match.ID, tt.ID, 1))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrInsufficientInventory):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 10, ok.Load())
	assert.EqualValues(t, 30, rejected.Load())
	assert.Equal(t, 0, f.available(t, tt.ID))

	all, err := f.bookings.List(context.Background())
	require.NoError(t, err)
	sold := 0
	for _, b := range all {
		sold += b.Quantity
	}
	assert.Equal(t, 10, sold)
}

func TestConcurrentLargeBookingsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "Premium", 3000, 10)

	var ok atomic.Int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.bookings.Create(context.Background(), bookingInput(f.match.ID, tt.ID, 6))
			if err == nil {
				ok.Add(1)
				return nil
			}
			if errors.Is(err, ErrInsufficientInventory) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, ok.Load())
	assert.Equal(t, 4, f.available(t, tt.ID))
}

// failingBookingStore accepts the seat decrement but refuses the insert.
type failingBookingStore struct {
	*memory.Store
	err error
}

func (s failingBookingStore) CreateBooking(context.Context, *model.Booking) error { return s.err }

func TestCreateBookingRollsBackReservationWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 5)
	store := failingBookingStore{Store: f.store, err: errors.New("disk full")}
	bookings := NewBookings(store, NewInventory(store), DefaultFeePolicy(), nil, nil)

	_, err := bookings.Create(context.Background(), bookingInput(f.match.ID, tt.ID, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 5, f.available(t, tt.ID))
}

func TestCreateBookingRetriesReferenceCollision(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	refs := []string{"IPLBK1", "IPLBK1", "IPLBK2"}
	var n atomic.Int32
	next := func() string { return refs[int(n.Add(1))-1] }
	bookings := NewBookings(f.store, f.inventory, DefaultFeePolicy(), next, nil)
	ctx := context.Background()

	first, err := bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)
	second, err := bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)

	assert.Equal(t, "IPLBK1", first.BookingRef)
	assert.Equal(t, "IPLBK2", second.BookingRef)
	assert.Equal(t, 8, f.available(t, tt.ID))
}

func TestCreateBookingGivesUpOnPersistentCollision(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	bookings := NewBookings(f.store, f.inventory, DefaultFeePolicy(), func() string { return "IPLBK-SAME" }, nil)
	ctx := context.Background()

	_, err := bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)
	_, err = bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 3))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Equal(t, 9, f.available(t, tt.ID))
}

func TestAttachPayment(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 2))
	require.NoError(t, err)

	paid, err := f.bookings.AttachPayment(ctx, b.BookingRef, "UPI", "412345678901")
	require.NoError(t, err)
	assert.Equal(t, model.BookingPaymentPending, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "upi", *paid.PaymentMethod)
	assert.Equal(t, "412345678901", *paid.UTRNumber)
	assert.Equal(t, b.Quantity, paid.Quantity)
	assert.Equal(t, b.TotalAmount, paid.TotalAmount)

	again, err := f.bookings.AttachPayment(ctx, b.BookingRef, "card", "999")
	require.NoError(t, err)
	assert.Equal(t, model.BookingPaymentPending, again.Status)
	assert.Equal(t, "999", *again.UTRNumber)

	assert.Equal(t, []string{queue.EventBookingCreated, queue.EventPaymentSubmitted, queue.EventPaymentSubmitted}, f.events.types())
}

func TestAttachPaymentAcceptsAnyMethodLabel(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)

	paid, err := f.bookings.AttachPayment(ctx, b.BookingRef, "Bank_Transfer", "UTR123456")
	require.NoError(t, err)
	assert.Equal(t, "bank_transfer", *paid.PaymentMethod)
	assert.Equal(t, model.BookingPaymentPending, paid.Status)
}

func TestAttachPaymentFailures(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)

	_, err = f.bookings.AttachPayment(ctx, b.BookingRef, "upi", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.bookings.AttachPayment(ctx, b.BookingRef, "", "123")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.bookings.AttachPayment(ctx, b.BookingRef, strings.Repeat("x", model.MaxPaymentMethodLen+1), "123")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.bookings.AttachPayment(ctx, "IPLBK0", "upi", "123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.bookings.SetStatus(ctx, b.BookingRef, model.BookingApproved)
	require.NoError(t, err)
	_, err = f.bookings.AttachPayment(ctx, b.BookingRef, "upi", "123")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := f.bookings.Get(ctx, b.BookingRef)
	require.NoError(t, err)
	assert.Nil(t, got.UTRNumber)
}

func TestSetStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 2))
	require.NoError(t, err)
	_, err = f.bookings.AttachPayment(ctx, b.BookingRef, "upi", "4123")
	require.NoError(t, err)

	back, err := f.bookings.SetStatus(ctx, b.BookingRef, model.BookingPending)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, back.Status)

	approved, err := f.bookings.SetStatus(ctx, b.BookingRef, "Approved")
	require.NoError(t, err)
	assert.Equal(t, model.BookingApproved, approved.Status)

	same, err := f.bookings.SetStatus(ctx, b.BookingRef, model.BookingApproved)
	require.NoError(t, err)
	assert.Equal(t, model.BookingApproved, same.Status)

	_, err = f.bookings.SetStatus(ctx, b.BookingRef, model.BookingRejected)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.bookings.SetStatus(ctx, b.BookingRef, model.BookingPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := f.bookings.Get(ctx, b.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, model.BookingApproved, got.Status)

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, queue.EventStatusChanged, last.Type)
	assert.Equal(t, model.BookingPending, last.PreviousStatus)
	assert.Equal(t, model.BookingApproved, last.Status)
}

func TestSetStatusFailures(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)

	_, err = f.bookings.SetStatus(ctx, b.BookingRef, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.bookings.SetStatus(ctx, b.BookingRef, model.BookingPaymentPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.bookings.SetStatus(ctx, "IPLBK-missing", model.BookingApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectionKeepsSeatsReserved(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 4))
	require.NoError(t, err)

	_, err = f.bookings.SetStatus(ctx, b.BookingRef, model.BookingRejected)
	require.NoError(t, err)
	assert.Equal(t, 6, f.available(t, tt.ID))

	restocked, err := f.inventory.Restock(ctx, tt.ID, b.Quantity)
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.AvailableSeats)
}

func TestConcurrentStatusDecisionsSettleOnce(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)

	var wins atomic.Int32
	var g errgroup.Group
	for _, status := range []string{model.BookingApproved, model.BookingRejected} {
		status := status
		g.Go(func() error {
			_, err := f.bookings.SetStatus(ctx, b.BookingRef, status)
			if err == nil {
				wins.Add(1)
				return nil
			}
			if errors.Is(err, ErrInvalidStatus) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, wins.Load())
}

func TestConcurrentIdenticalApprovalsChangeStatusOnce(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)
	before := testutil.ToFloat64(metrics.BookingStatusChanges.WithLabelValues(model.BookingApproved))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := f.bookings.SetStatus(ctx, b.BookingRef, model.BookingApproved)
			return err
		})
	}
	require.NoError(t, g.Wait())

	changed := 0
	for _, typ := range f.events.types() {
		if typ == queue.EventStatusChanged {
			changed++
		}
	}
	assert.Equal(t, 1, changed)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BookingStatusChanges.WithLabelValues(model.BookingApproved)))
}

func TestGetIsRepeatable(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 3))
	require.NoError(t, err)

	first, err := f.bookings.Get(ctx, b.BookingRef)
	require.NoError(t, err)
	second, err := f.bookings.Get(ctx, b.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 7, f.available(t, tt.ID))

	mine, err := f.bookings.ListByEmail(ctx, b.Email)
	require.NoError(t, err)
	again, err := f.bookings.ListByEmail(ctx, b.Email)
	require.NoError(t, err)
	assert.Equal(t, mine, again)
}

func TestCreateBookingRejectsOverflowingAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// written straight to storage, past catalog validation
	tt := model.TicketType{MatchID: f.match.ID, Name: "Legacy", Price: 1 << 60, TotalSeats: 10, AvailableSeats: 10}
	require.NoError(t, f.store.CreateTicketType(ctx, &tt))

	_, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 8))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 10, f.available(t, tt.ID))

	all, err := f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListByEmail(t *testing.T) {
	f := newFixture(t)
	tt := f.ticketType(t, "General", 500, 10)
	ctx := context.Background()

	first, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 1))
	require.NoError(t, err)
	second, err := f.bookings.Create(ctx, bookingInput(f.match.ID, tt.ID, 2))
	require.NoError(t, err)
	other := bookingInput(f.match.ID, tt.ID, 1)
	other.Email = "ravi@example.in"
	_, err = f.bookings.Create(ctx, other)
	require.NoError(t, err)

	mine, err := f.bookings.ListByEmail(ctx, "asha@example.in")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.BookingRef, mine[0].BookingRef)
	assert.Equal(t, first.BookingRef, mine[1].BookingRef)

	none, err := f.bookings.ListByEmail(ctx, "ASHA@example.in")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.bookings.ListByEmail(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
