package service

import (
	"context"
	"strings"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
)

// CreatePaymentChannelInput describes a new UPI channel.
type CreatePaymentChannelInput struct {
	UPIID       string  `json:"upiId"`
	QRCode      *string `json:"qrCode"`
	DisplayName *string `json:"displayName"`
	IsActive    *bool   `json:"isActive"`
}

// PaymentChannels keeps at most one UPI channel active.  Activation and
// the deactivation of the others happen in one transaction.
type PaymentChannels struct {
	store repository.Store
}

func NewPaymentChannels(store repository.Store) *PaymentChannels {
	if store == nil {
		panic("nil store passed to NewPaymentChannels")
	}
	return &PaymentChannels{store: store}
}

// Create stores a channel, active unless stated otherwise.
func (p *PaymentChannels) Create(ctx context.Context, in CreatePaymentChannelInput) (model.PaymentChannel, error) {
	ch := model.PaymentChannel{
		UPIID:       strings.TrimSpace(in.UPIID),
		QRCode:      in.QRCode,
		DisplayName: in.DisplayName,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if ch.UPIID == "" {
		return model.PaymentChannel{}, invalidf("upi id is required")
	}
	err := p.store.WithTx(ctx, func(ctx context.Context) error {
		if ch.IsActive {
			if err := p.store.DeactivatePaymentChannels(ctx, 0); err != nil {
				return err
			}
		}
		return p.store.CreatePaymentChannel(ctx, &ch)
	})
	if err != nil {
		return model.PaymentChannel{}, storeErr(err, "payment channel", ch.UPIID)
	}
	return ch, nil
}

// Update applies patch.  Activating a channel deactivates every other one.
func (p *PaymentChannels) Update(ctx context.Context, id int64, patch model.PaymentChannelPatch) (model.PaymentChannel, error) {
	if patch.UPIID != nil {
		trimmed := strings.TrimSpace(*patch.UPIID)
		if trimmed == "" {
			return model.PaymentChannel{}, invalidf("upi id must not be empty")
		}
		patch.UPIID = &trimmed
	}
	var out model.PaymentChannel
	err := p.store.WithTx(ctx, func(ctx context.Context) error {
		ch, err := p.store.GetPaymentChannel(ctx, id)
		if err != nil {
			return storeErr(err, "payment channel", id)
		}
		patch.Apply(&ch)
		if patch.IsActive != nil && *patch.IsActive {
			if err := p.store.DeactivatePaymentChannels(ctx, id); err != nil {
				return storeErr(err, "payment channel", id)
			}
		}
		if err := p.store.SavePaymentChannel(ctx, ch); err != nil {
			return storeErr(err, "payment channel", id)
		}
		out = ch
		return nil
	})
	return out, err
}

// Active returns the active channel.  ok is false when none is active, and
// also when more than one is, since customers must never see an ambiguous
// payee.
func (p *PaymentChannels) Active(ctx context.Context) (ch model.PaymentChannel, ok bool, err error) {
	active, err := p.store.ListActivePaymentChannels(ctx, 2)
	if err != nil {
		return model.PaymentChannel{}, false, err
	}
	switch len(active) {
	case 1:
		return active[0], true, nil
	case 0:
		return model.PaymentChannel{}, false, nil
	}
	logging.FromContext(ctx).Warn("more than one payment channel is active")
	return model.PaymentChannel{}, false, nil
}
