package repository

import (
	"context"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

const bookingColumns = `id, booking_ref, match_id, ticket_type_id, full_name, email, phone, quantity,
	base_amount, gst, service_fee, total_amount, status, payment_method, utr_number, created_at`

// CreateBooking inserts b.  A reference collision surfaces as ErrDuplicate.
func (s *SQLStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	id, err := s.insert(ctx, `INSERT INTO bookings (booking_ref, match_id, ticket_type_id, full_name, email, phone, quantity,
		base_amount, gst, service_fee, total_amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BookingRef, b.MatchID, b.TicketTypeID, b.FullName, b.Email, b.Phone, b.Quantity,
		b.BaseAmount, b.GST, b.ServiceFee, b.TotalAmount, b.Status)
	if err != nil {
		return err
	}
	var stored model.Booking
	if err := s.get(ctx, &stored, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id); err != nil {
		return err
	}
	*b = stored
	return nil
}

func (s *SQLStore) GetBooking(ctx context.Context, ref string) (model.Booking, error) {
	var b model.Booking
	err := s.get(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE booking_ref = ?`, ref)
	return b, err
}

func (s *SQLStore) GetBookingForUpdate(ctx context.Context, ref string) (model.Booking, error) {
	if _, ok := txFrom(ctx); !ok {
		return s.GetBooking(ctx, ref)
	}
	var b model.Booking
	err := s.get(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE booking_ref = ? FOR UPDATE`, ref)
	return b, err
}

func (s *SQLStore) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	out := []model.Booking{}
	err := s.selectAll(ctx, &out, `SELECT `+bookingColumns+` FROM bookings WHERE email = ? ORDER BY created_at DESC, id DESC`, email)
	return out, err
}

func (s *SQLStore) ListBookings(ctx context.Context) ([]model.Booking, error) {
	out := []model.Booking{}
	err := s.selectAll(ctx, &out, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (s *SQLStore) UpdateBookingPayment(ctx context.Context, ref, method, utr string) (model.Booking, error) {
	if _, err := s.exec(ctx, `UPDATE bookings SET payment_method = ?, utr_number = ?,
		status = CASE WHEN status = ? THEN ? ELSE status END
		WHERE booking_ref = ? AND status NOT IN (?, ?)`,
		method, utr, model.BookingPending, model.BookingPaymentPending,
		ref, model.BookingApproved, model.BookingRejected); err != nil {
		return model.Booking{}, err
	}
	return s.GetBooking(ctx, ref)
}

func (s *SQLStore) UpdateBookingStatus(ctx context.Context, ref, status string) (model.Booking, error) {
	if _, err := s.exec(ctx, `UPDATE bookings SET status = ?
		WHERE booking_ref = ? AND status NOT IN (?, ?)`,
		status, ref, model.BookingApproved, model.BookingRejected); err != nil {
		return model.Booking{}, err
	}
	return s.GetBooking(ctx, ref)
}
