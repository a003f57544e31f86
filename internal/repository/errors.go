// Package repository defines the storage contracts used by the service
// layer and their SQL implementation.  The sentinel values below are the
// only errors higher layers need to inspect; driver errors are classified
// into them here so callers never look at MySQL or Postgres codes.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientSeats is returned by a conditional decrement that found
// fewer available seats than requested.  Nothing was changed.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrDuplicate is returned when an insert or update hits a unique key.
var ErrDuplicate = errors.New("duplicate record")

// ErrReferenced is returned when a delete is blocked by rows that still
// point at the record.
var ErrReferenced = errors.New("record is referenced")

const (
	mysqlDuplicateEntry      = 1062
	mysqlRowIsReferenced     = 1451
	mysqlNoReferencedRow     = 1452
	postgresUniqueViolation  = "23505"
	postgresForeignKeyFailed = "23503"
)

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == postgresUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == postgresForeignKeyFailed
}

// classify maps driver errors onto the package sentinels and leaves
// everything else untouched.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	case isForeignKeyViolation(err):
		return ErrReferenced
	}
	return err
}
