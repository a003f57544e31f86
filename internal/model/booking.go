package model

import "time"

// Booking statuses.  Approved and rejected are final.
const (
	BookingPending        = "pending"
	BookingPaymentPending = "payment_pending"
	BookingApproved       = "approved"
	BookingRejected       = "rejected"
)

// MaxPaymentMethodLen bounds the free-form payment method label.
const MaxPaymentMethodLen = 32

// Booking is a customer's claim on Quantity tickets of one ticket type.
// Amounts are computed once at creation and never recomputed.
//
// Fields:
//  ID            – primary key identifier.
//  BookingRef    – public, human-readable reference (unique).
//  MatchID       – match being booked.
//  TicketTypeID  – ticket type the seats were reserved from.
//  FullName      – customer name.
//  Email         – customer email, used for lookups.
//  Phone         – customer phone.
//  Quantity      – number of tickets.
//  BaseAmount    – price × quantity.
//  GST           – tax on BaseAmount.
//  ServiceFee    – platform fee on BaseAmount.
//  TotalAmount   – BaseAmount + GST + ServiceFee.
//  Status        – lifecycle status.
//  PaymentMethod – method reported with the payment proof (nullable).
//  UTRNumber     – bank transaction reference (nullable).
//  CreatedAt     – creation timestamp.
type Booking struct {
	ID            int64     `db:"id" json:"id"`
	BookingRef    string    `db:"booking_ref" json:"bookingId"`
	MatchID       int64     `db:"match_id" json:"matchId"`
	TicketTypeID  int64     `db:"ticket_type_id" json:"ticketTypeId"`
	FullName      string    `db:"full_name" json:"fullName"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	Quantity      int       `db:"quantity" json:"quantity"`
	BaseAmount    int64     `db:"base_amount" json:"baseAmount"`
	GST           int64     `db:"gst" json:"gst"`
	ServiceFee    int64     `db:"service_fee" json:"serviceFee"`
	TotalAmount   int64     `db:"total_amount" json:"totalAmount"`
	Status        string    `db:"status" json:"status"`
	PaymentMethod *string   `db:"payment_method" json:"paymentMethod,omitempty"`
	UTRNumber     *string   `db:"utr_number" json:"utrNumber,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// IsFinal reports whether status can no longer change.
func IsFinal(status string) bool {
	return status == BookingApproved || status == BookingRejected
}
