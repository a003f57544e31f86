package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on MySQL or Postgres through sqlx.  Queries
// are written with ? placeholders and rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	if db == nil {
		panic("nil db passed to NewSQLStore")
	}
	return &SQLStore{db: db}
}

type txKey struct{}

func txFrom(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// WithTx implements Transactor.
func (s *SQLStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// q returns the transaction bound to ctx, or the pool.
func (s *SQLStore) q(ctx context.Context) sqlx.ExtContext {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return s.db
}

func (s *SQLStore) postgres() bool { return s.db.DriverName() == "postgres" }

func (s *SQLStore) get(ctx context.Context, dest any, query string, args ...any) error {
	q := s.q(ctx)
	return classify(sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...))
}

func (s *SQLStore) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	q := s.q(ctx)
	return classify(sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...))
}

// exec runs a statement and returns the number of affected rows.
func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (int64, error) {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// insert runs an INSERT and returns the generated id.  Postgres has no
// LastInsertId so the statement is extended with RETURNING.
func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	q := s.q(ctx)
	if s.postgres() {
		var id int64
		if err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, classify(err)
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}
