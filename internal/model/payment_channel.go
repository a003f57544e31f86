package model

import "time"

// PaymentChannel is a UPI destination shown to customers.  At most one
// channel is active at a time.
type PaymentChannel struct {
	ID          int64     `db:"id" json:"id"`
	UPIID       string    `db:"upi_id" json:"upiId"`
	QRCode      *string   `db:"qr_code" json:"qrCode,omitempty"`
	DisplayName *string   `db:"display_name" json:"displayName,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PaymentChannelPatch carries a partial update of a channel.
type PaymentChannelPatch struct {
	UPIID       *string `json:"upiId"`
	QRCode      *string `json:"qrCode"`
	DisplayName *string `json:"displayName"`
	IsActive    *bool   `json:"isActive"`
}

// Apply copies every non-nil field of p onto ch.
func (p PaymentChannelPatch) Apply(ch *PaymentChannel) {
	if p.UPIID != nil {
		ch.UPIID = *p.UPIID
	}
	if p.QRCode != nil {
		ch.QRCode = p.QRCode
	}
	if p.DisplayName != nil {
		ch.DisplayName = p.DisplayName
	}
	if p.IsActive != nil {
		ch.IsActive = *p.IsActive
	}
}
