package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Usernames, booking references and emails use a binary collation so
// lookups are case-sensitive on MySQL as they are on Postgres.
//
// The MySQL driver runs one statement per Exec unless multiStatements is
// enabled, so the schema is kept as a list.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admin_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		team1 VARCHAR(128) NOT NULL,
		team2 VARCHAR(128) NOT NULL,
		team1_logo VARCHAR(512) NULL,
		team2_logo VARCHAR(512) NULL,
		venue VARCHAR(255) NOT NULL,
		stadium VARCHAR(255) NOT NULL,
		match_date VARCHAR(64) NOT NULL,
		match_time VARCHAR(64) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		match_id BIGINT NOT NULL,
		name VARCHAR(128) NOT NULL,
		description TEXT NULL,
		price BIGINT NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_ticket_types_match_name (match_id, name),
		CONSTRAINT fk_ticket_types_match FOREIGN KEY (match_id) REFERENCES matches (id),
		CONSTRAINT chk_ticket_types_seats CHECK (available_seats >= 0 AND available_seats <= total_seats)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_ref VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		match_id BIGINT NOT NULL,
		ticket_type_id BIGINT NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		phone VARCHAR(32) NOT NULL,
		quantity INT NOT NULL,
		base_amount BIGINT NOT NULL,
		gst BIGINT NOT NULL,
		service_fee BIGINT NOT NULL,
		total_amount BIGINT NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		payment_method VARCHAR(32) NULL,
		utr_number VARCHAR(64) NULL,
		created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		UNIQUE KEY uq_bookings_ref (booking_ref),
		KEY idx_bookings_email (email),
		CONSTRAINT fk_bookings_match FOREIGN KEY (match_id) REFERENCES matches (id),
		CONSTRAINT fk_bookings_ticket_type FOREIGN KEY (ticket_type_id) REFERENCES ticket_types (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS payment_channels (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		upi_id VARCHAR(128) NOT NULL,
		qr_code TEXT NULL,
		display_name VARCHAR(255) NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(191) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		team1 VARCHAR(128) NOT NULL,
		team2 VARCHAR(128) NOT NULL,
		team1_logo VARCHAR(512),
		team2_logo VARCHAR(512),
		venue VARCHAR(255) NOT NULL,
		stadium VARCHAR(255) NOT NULL,
		match_date VARCHAR(64) NOT NULL,
		match_time VARCHAR(64) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id BIGSERIAL PRIMARY KEY,
		match_id BIGINT NOT NULL REFERENCES matches (id),
		name VARCHAR(128) NOT NULL,
		description TEXT,
		price BIGINT NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (match_id, name),
		CHECK (available_seats >= 0 AND available_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		booking_ref VARCHAR(64) NOT NULL UNIQUE,
		match_id BIGINT NOT NULL REFERENCES matches (id),
		ticket_type_id BIGINT NOT NULL REFERENCES ticket_types (id),
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		quantity INT NOT NULL,
		base_amount BIGINT NOT NULL,
		gst BIGINT NOT NULL,
		service_fee BIGINT NOT NULL,
		total_amount BIGINT NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		payment_method VARCHAR(32),
		utr_number VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings (email)`,
	`CREATE TABLE IF NOT EXISTS payment_channels (
		id BIGSERIAL PRIMARY KEY,
		upi_id VARCHAR(128) NOT NULL,
		qr_code TEXT,
		display_name VARCHAR(255),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates any missing tables for the connected driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := mysqlSchema
	if db.DriverName() == "postgres" {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
