package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/match-ticket-booking/internal/database"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/queue"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
	"github.com/iliyamo/match-ticket-booking/internal/service"
)

// sqlBackends opens every database configured through TEST_MYSQL_DSN or
// TEST_POSTGRES_URL.  Tests skip when neither is set.
func sqlBackends(t *testing.T) map[string]*repository.SQLStore {
	t.Helper()
	out := map[string]*repository.SQLStore{}
	for driver, env := range map[string]string{"mysql": "TEST_MYSQL_DSN", "postgres": "TEST_POSTGRES_URL"} {
		dsn := os.Getenv(env)
		if dsn == "" {
			continue
		}
		db, err := sqlx.Open(driver, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		require.NoError(t, database.Migrate(context.Background(), db))
		out[driver] = repository.NewSQLStore(db)
	}
	if len(out) == 0 {
		t.Skip("TEST_MYSQL_DSN / TEST_POSTGRES_URL not set")
	}
	return out
}

func seedTicketType(t *testing.T, s *repository.SQLStore, seats int) model.TicketType {
	t.Helper()
	ctx := context.Background()
	m := model.Match{Team1: "PBKS", Team2: "RR", Venue: "Mohali", Stadium: "PCA Stadium", Date: "d", Time: "t", IsActive: true}
	require.NoError(t, s.CreateMatch(ctx, &m))
	tt := model.TicketType{MatchID: m.ID, Name: fmt.Sprintf("Stand-%d", time.Now().UnixNano()), Price: 900, TotalSeats: seats, AvailableSeats: seats}
	require.NoError(t, s.CreateTicketType(ctx, &tt))
	return tt
}

func TestSQLConditionalDecrement(t *testing.T) {
	for name, s := range sqlBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tt := seedTicketType(t, s, 10)

			var ok atomic.Int32
			var g errgroup.Group
			for i := 0; i < 25; i++ {
				g.Go(func() error {
					err := s.DecrementAvailable(ctx, tt.ID, 1)
					if err == nil {
						ok.Add(1)
						return nil
					}
					if errors.Is(err, repository.ErrInsufficientSeats) {
						return nil
					}
					return err
				})
			}
			require.NoError(t, g.Wait())
			assert.EqualValues(t, 10, ok.Load())

			got, err := s.GetTicketType(ctx, tt.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, got.AvailableSeats)
			assert.ErrorIs(t, s.DecrementAvailable(ctx, -1, 1), repository.ErrNotFound)

			restocked, err := s.IncrementAvailable(ctx, tt.ID, 50)
			require.NoError(t, err)
			assert.Equal(t, 10, restocked.AvailableSeats)
		})
	}
}

func TestSQLWithTxRollsBack(t *testing.T) {
	for name, s := range sqlBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tt := seedTicketType(t, s, 5)
			ref := fmt.Sprintf("TEST%d", time.Now().UnixNano())

			err := s.WithTx(ctx, func(ctx context.Context) error {
				if err := s.DecrementAvailable(ctx, tt.ID, 2); err != nil {
					return err
				}
				b := model.Booking{BookingRef: ref, MatchID: tt.MatchID, TicketTypeID: tt.ID, FullName: "n", Email: "e@x.in",
					Phone: "p", Quantity: 2, BaseAmount: 1800, Status: model.BookingPending}
				if err := s.CreateBooking(ctx, &b); err != nil {
					return err
				}
				return errors.New("abort")
			})
			require.Error(t, err)

			got, err := s.GetTicketType(ctx, tt.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, got.AvailableSeats)
			_, err = s.GetBooking(ctx, ref)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestSQLBookingLifecycle(t *testing.T) {
	for name, s := range sqlBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tt := seedTicketType(t, s, 5)
			ref := fmt.Sprintf("TEST%d", time.Now().UnixNano())
			b := model.Booking{BookingRef: ref, MatchID: tt.MatchID, TicketTypeID: tt.ID, FullName: "n", Email: "Case@x.in",
				Phone: "p", Quantity: 1, BaseAmount: 900, GST: 162, ServiceFee: 18, TotalAmount: 1080, Status: model.BookingPending}
			require.NoError(t, s.CreateBooking(ctx, &b))
			assert.NotZero(t, b.ID)
			dup := b
			assert.ErrorIs(t, s.CreateBooking(ctx, &dup), repository.ErrDuplicate)

			paid, err := s.UpdateBookingPayment(ctx, ref, "upi", "4444")
			require.NoError(t, err)
			assert.Equal(t, model.BookingPaymentPending, paid.Status)

			approved, err := s.UpdateBookingStatus(ctx, ref, model.BookingApproved)
			require.NoError(t, err)
			assert.Equal(t, model.BookingApproved, approved.Status)
			still, err := s.UpdateBookingStatus(ctx, ref, model.BookingRejected)
			require.NoError(t, err)
			assert.Equal(t, model.BookingApproved, still.Status)

			lower, err := s.ListBookingsByEmail(ctx, "case@x.in")
			require.NoError(t, err)
			assert.Empty(t, lower)

			assert.ErrorIs(t, s.DeleteTicketType(ctx, tt.ID), repository.ErrReferenced)
		})
	}
}

type statusChangeCounter struct {
	changed atomic.Int32
}

func (c *statusChangeCounter) Publish(_ context.Context, ev queue.BookingEvent) error {
	if ev.Type == queue.EventStatusChanged {
		c.changed.Add(1)
	}
	return nil
}

func TestSQLConcurrentApprovalsSettleOnce(t *testing.T) {
	for name, s := range sqlBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tt := seedTicketType(t, s, 5)
			events := &statusChangeCounter{}
			bookings := service.NewBookings(s, service.NewInventory(s), service.DefaultFeePolicy(), nil, events)

			b, err := bookings.Create(ctx, service.CreateBookingInput{
				MatchID: tt.MatchID, TicketTypeID: tt.ID, FullName: "Kiran", Email: "kiran@example.in",
				Phone: "+91 90000 00000", Quantity: 1,
			})
			require.NoError(t, err)

			var g errgroup.Group
			for i := 0; i < 6; i++ {
				g.Go(func() error {
					_, err := bookings.SetStatus(ctx, b.BookingRef, model.BookingApproved)
					return err
				})
			}
			require.NoError(t, g.Wait())
			assert.EqualValues(t, 1, events.changed.Load())

			got, err := s.GetBookingForUpdate(ctx, b.BookingRef)
			require.NoError(t, err)
			assert.Equal(t, model.BookingApproved, got.Status)
		})
	}
}
