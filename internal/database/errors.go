package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Sentinel errors carried by StoreError. Match them with errors.Is.
var (
	ErrDuplicateKey = errors.New("database: duplicate key")
	ErrTimeout      = errors.New("database: query timeout")
	ErrConnection   = errors.New("database: connection failed")
	ErrQuery        = errors.New("database: query failed")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// StoreError is returned by every failing store operation.
type StoreError struct {
	// Op names the store operation, e.g. "employee.insert".
	Op       string
	Sentinel error
	Cause    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Sentinel, e.Cause)
}

func (e *StoreError) Is(target error) bool { return e.Sentinel == target }
func (e *StoreError) Unwrap() error        { return e.Cause }

func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }
func IsTimeout(err error) bool      { return errors.Is(err, ErrTimeout) }

// MapError wraps a driver error into a StoreError. nil stays nil and an
// existing StoreError is returned unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	return &StoreError{Op: op, Sentinel: classify(err), Cause: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	case errors.Is(err, driver.ErrBadConn):
		return ErrConnection
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == pgUniqueViolation {
			return ErrDuplicateKey
		}
		return ErrQuery
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return ErrDuplicateKey
		}
		return ErrQuery
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicateKey
		}
		return ErrQuery
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ErrConnection
	}

	return ErrQuery
}
