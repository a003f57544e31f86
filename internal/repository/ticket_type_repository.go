package repository

import (
	"context"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

const ticketTypeColumns = `id, match_id, name, description, price, total_seats, available_seats, created_at`

func (s *SQLStore) ListTicketTypes(ctx context.Context, matchID int64) ([]model.TicketType, error) {
	out := []model.TicketType{}
	err := s.selectAll(ctx, &out, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE match_id = ? ORDER BY price, id`, matchID)
	return out, err
}

func (s *SQLStore) GetTicketType(ctx context.Context, id int64) (model.TicketType, error) {
	var t model.TicketType
	err := s.get(ctx, &t, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = ?`, id)
	return t, err
}

func (s *SQLStore) GetTicketTypeForUpdate(ctx context.Context, id int64) (model.TicketType, error) {
	if _, ok := txFrom(ctx); !ok {
		return s.GetTicketType(ctx, id)
	}
	var t model.TicketType
	err := s.get(ctx, &t, `SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = ? FOR UPDATE`, id)
	return t, err
}

func (s *SQLStore) CreateTicketType(ctx context.Context, t *model.TicketType) error {
	id, err := s.insert(ctx, `INSERT INTO ticket_types (match_id, name, description, price, total_seats, available_seats)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.MatchID, t.Name, t.Description, t.Price, t.TotalSeats, t.AvailableSeats)
	if err != nil {
		return err
	}
	stored, err := s.GetTicketType(ctx, id)
	if err != nil {
		return err
	}
	*t = stored
	return nil
}

// SaveTicketType overwrites the mutable columns.  Callers are expected to
// hold the row lock obtained through GetTicketTypeForUpdate.
func (s *SQLStore) SaveTicketType(ctx context.Context, t model.TicketType) error {
	n, err := s.exec(ctx, `UPDATE ticket_types SET name = ?, description = ?, price = ?, total_seats = ?, available_seats = ?
		WHERE id = ?`,
		t.Name, t.Description, t.Price, t.TotalSeats, t.AvailableSeats, t.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = s.GetTicketType(ctx, t.ID)
		return err
	}
	return nil
}

func (s *SQLStore) DeleteTicketType(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, `DELETE FROM ticket_types WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementAvailable is the only path that sells seats.  The guard in the
// WHERE clause makes the check and the write one atomic statement.
func (s *SQLStore) DecrementAvailable(ctx context.Context, id int64, qty int) error {
	n, err := s.exec(ctx, `UPDATE ticket_types SET available_seats = available_seats - ?
		WHERE id = ? AND available_seats >= ?`, qty, id, qty)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	if err := s.get(ctx, &exists, `SELECT COUNT(*) FROM ticket_types WHERE id = ?`, id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrInsufficientSeats
}

func (s *SQLStore) IncrementAvailable(ctx context.Context, id int64, qty int) (model.TicketType, error) {
	if _, err := s.exec(ctx, `UPDATE ticket_types SET available_seats = LEAST(total_seats, available_seats + ?)
		WHERE id = ?`, qty, id); err != nil {
		return model.TicketType{}, err
	}
	return s.GetTicketType(ctx, id)
}
