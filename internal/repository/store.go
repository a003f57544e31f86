package repository

import (
	"context"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

// MatchStore persists matches.
type MatchStore interface {
	ListMatches(ctx context.Context, active *bool) ([]model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	CreateMatch(ctx context.Context, m *model.Match) error
	SaveMatch(ctx context.Context, m model.Match) error
	// DeleteMatch fails with ErrReferenced while ticket types point at it.
	DeleteMatch(ctx context.Context, id int64) error
}

// TicketTypeStore persists ticket types and owns the seat counters.
type TicketTypeStore interface {
	ListTicketTypes(ctx context.Context, matchID int64) ([]model.TicketType, error)
	GetTicketType(ctx context.Context, id int64) (model.TicketType, error)
	// GetTicketTypeForUpdate locks the row until the surrounding
	// transaction ends.  Outside a transaction it behaves like GetTicketType.
	GetTicketTypeForUpdate(ctx context.Context, id int64) (model.TicketType, error)
	CreateTicketType(ctx context.Context, t *model.TicketType) error
	SaveTicketType(ctx context.Context, t model.TicketType) error
	DeleteTicketType(ctx context.Context, id int64) error

	// DecrementAvailable removes qty seats in a single conditional step.
	// It returns ErrInsufficientSeats, without changing anything, when
	// fewer than qty seats are left, and ErrNotFound for unknown ids.
	DecrementAvailable(ctx context.Context, id int64, qty int) error
	// IncrementAvailable returns qty seats, capped at the total.
	IncrementAvailable(ctx context.Context, id int64, qty int) (model.TicketType, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, ref string) (model.Booking, error)
	// GetBookingForUpdate locks the row until the surrounding transaction
	// ends.  Outside a transaction it behaves like GetBooking.
	GetBookingForUpdate(ctx context.Context, ref string) (model.Booking, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	// UpdateBookingPayment records the payment proof on a booking that is
	// not final and moves pending bookings to payment_pending.  The stored
	// row is returned whether or not it was changed.
	UpdateBookingPayment(ctx context.Context, ref, method, utr string) (model.Booking, error)
	// UpdateBookingStatus sets status unless the booking is already final.
	// The stored row is returned whether or not it was changed.
	UpdateBookingStatus(ctx context.Context, ref, status string) (model.Booking, error)
}

// PaymentChannelStore persists UPI payment channels.
type PaymentChannelStore interface {
	// ListActivePaymentChannels returns up to limit active channels.
	ListActivePaymentChannels(ctx context.Context, limit int) ([]model.PaymentChannel, error)
	GetPaymentChannel(ctx context.Context, id int64) (model.PaymentChannel, error)
	CreatePaymentChannel(ctx context.Context, ch *model.PaymentChannel) error
	SavePaymentChannel(ctx context.Context, ch model.PaymentChannel) error
	// DeactivatePaymentChannels clears the active flag on every channel
	// except exceptID (0 excludes nothing).
	DeactivatePaymentChannels(ctx context.Context, exceptID int64) error
}

// AdminStore persists admin accounts.
type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (model.AdminUser, error)
	CreateAdmin(ctx context.Context, u *model.AdminUser) error
}

// Transactor runs fn atomically.  Store calls made with the context passed
// to fn join the transaction; nested calls reuse the outer one.  When fn
// returns an error every change made through that context is discarded.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the full storage capability set.
type Store interface {
	MatchStore
	TicketTypeStore
	BookingStore
	PaymentChannelStore
	AdminStore
	Transactor
}
