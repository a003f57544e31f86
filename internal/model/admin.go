package model

import "time"

// AdminUser mirrors the admin_users table.  The hash never leaves the
// storage and credential layers.
type AdminUser struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
}

// AdminIdentity is what a successful credential check hands back.
type AdminIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Identity strips the password hash.
func (u AdminUser) Identity() AdminIdentity {
	return AdminIdentity{ID: u.ID, Username: u.Username, Name: u.Name}
}
