package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/iliyamo/match-ticket-booking/internal/config"
)

// Open connects to the configured SQL backend and verifies the connection.
func Open(cfg config.Config) (*sqlx.DB, error) {
	var (
		driver string
		dsn    string
	)
	switch cfg.StorageDriver {
	case config.DriverMySQL:
		driver, dsn = config.DriverMySQL, mysqlDSN(cfg)
	case config.DriverPostgres:
		driver, dsn = config.DriverPostgres, cfg.DatabaseURL
	default:
		return nil, fmt.Errorf("no sql backend for driver %q", cfg.StorageDriver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// mysqlDSN builds the DSN with parseTime so DATETIME scans into time.Time
// and loc=UTC to keep timestamps consistent.
func mysqlDSN(cfg config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
