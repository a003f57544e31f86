package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/match-ticket-booking/internal/model"
)

// GetAdminByUsername looks up an admin by trimmed username.
func (s *SQLStore) GetAdminByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	var u model.AdminUser
	err := s.get(ctx, &u, `SELECT id, username, password_hash, name, created_at FROM admin_users WHERE username = ?`,
		strings.TrimSpace(username))
	return u, err
}

// CreateAdmin inserts an admin whose PasswordHash is already set.
func (s *SQLStore) CreateAdmin(ctx context.Context, u *model.AdminUser) error {
	u.Username = strings.TrimSpace(u.Username)
	id, err := s.insert(ctx, `INSERT INTO admin_users (username, password_hash, name) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.Name)
	if err != nil {
		return err
	}
	stored, err := s.GetAdminByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	stored.ID = id
	*u = stored
	return nil
}
