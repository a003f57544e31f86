package repository

import (
	"context"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

const matchColumns = `id, team1, team2, team1_logo, team2_logo, venue, stadium, match_date, match_time, is_active, created_at`

// ListMatches returns matches ordered by id, optionally filtered on the
// active flag.
func (s *SQLStore) ListMatches(ctx context.Context, active *bool) ([]model.Match, error) {
	out := []model.Match{}
	if active != nil {
		err := s.selectAll(ctx, &out, `SELECT `+matchColumns+` FROM matches WHERE is_active = ? ORDER BY id`, *active)
		return out, err
	}
	err := s.selectAll(ctx, &out, `SELECT `+matchColumns+` FROM matches ORDER BY id`)
	return out, err
}

func (s *SQLStore) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	var m model.Match
	err := s.get(ctx, &m, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	return m, err
}

// CreateMatch inserts m and refreshes it with the stored row.
func (s *SQLStore) CreateMatch(ctx context.Context, m *model.Match) error {
	id, err := s.insert(ctx, `INSERT INTO matches (team1, team2, team1_logo, team2_logo, venue, stadium, match_date, match_time, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Team1, m.Team2, m.Team1Logo, m.Team2Logo, m.Venue, m.Stadium, m.Date, m.Time, m.IsActive)
	if err != nil {
		return err
	}
	stored, err := s.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

func (s *SQLStore) SaveMatch(ctx context.Context, m model.Match) error {
	n, err := s.exec(ctx, `UPDATE matches SET team1 = ?, team2 = ?, team1_logo = ?, team2_logo = ?, venue = ?, stadium = ?,
		match_date = ?, match_time = ?, is_active = ? WHERE id = ?`,
		m.Team1, m.Team2, m.Team1Logo, m.Team2Logo, m.Venue, m.Stadium, m.Date, m.Time, m.IsActive, m.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports unchanged rows as unaffected.
		_, err = s.GetMatch(ctx, m.ID)
		return err
	}
	return nil
}

func (s *SQLStore) DeleteMatch(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
