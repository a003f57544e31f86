package repository

import (
	"context"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

const paymentChannelColumns = `id, upi_id, qr_code, display_name, is_active, created_at`

func (s *SQLStore) ListActivePaymentChannels(ctx context.Context, limit int) ([]model.PaymentChannel, error) {
	out := []model.PaymentChannel{}
	err := s.selectAll(ctx, &out, `SELECT `+paymentChannelColumns+` FROM payment_channels
		WHERE is_active = ? ORDER BY id DESC LIMIT ?`, true, limit)
	return out, err
}

func (s *SQLStore) GetPaymentChannel(ctx context.Context, id int64) (model.PaymentChannel, error) {
	var ch model.PaymentChannel
	err := s.get(ctx, &ch, `SELECT `+paymentChannelColumns+` FROM payment_channels WHERE id = ?`, id)
	return ch, err
}

func (s *SQLStore) CreatePaymentChannel(ctx context.Context, ch *model.PaymentChannel) error {
	id, err := s.insert(ctx, `INSERT INTO payment_channels (upi_id, qr_code, display_name, is_active) VALUES (?, ?, ?, ?)`,
		ch.UPIID, ch.QRCode, ch.DisplayName, ch.IsActive)
	if err != nil {
		return err
	}
	stored, err := s.GetPaymentChannel(ctx, id)
	if err != nil {
		return err
	}
	*ch = stored
	return nil
}

func (s *SQLStore) SavePaymentChannel(ctx context.Context, ch model.PaymentChannel) error {
	n, err := s.exec(ctx, `UPDATE payment_channels SET upi_id = ?, qr_code = ?, display_name = ?, is_active = ? WHERE id = ?`,
		ch.UPIID, ch.QRCode, ch.DisplayName, ch.IsActive, ch.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = s.GetPaymentChannel(ctx, ch.ID)
		return err
	}
	return nil
}

func (s *SQLStore) DeactivatePaymentChannels(ctx context.Context, exceptID int64) error {
	_, err := s.exec(ctx, `UPDATE payment_channels SET is_active = ? WHERE is_active = ? AND id <> ?`, false, true, exceptID)
	return err
}
