package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth/internal/logger"
	"wealth/internal/metrics"
)

// MaxAttempts bounds how many times Transact runs a conflicting unit of work.
const MaxAttempts = 3

// DefaultAccountIndex is the partial unique index allowing one default
// account per user.
const DefaultAccountIndex = "idx_accounts_one_default"

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// Transact runs fn as a single unit of work. On PostgreSQL the transaction
// is SERIALIZABLE and is retried when the server reports a serialization
// failure, a deadlock, or a violation of the default-account index. Any
// error returned by fn rolls the whole unit back.
func Transact(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if isPostgres(db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn, opts...)
		if err == nil || !IsRetryable(err) {
			return err
		}
		metrics.TxRetries.Inc()
		logger.FromContext(ctx).Warnw("retrying conflicting transaction",
			"attempt", attempt,
			"error", err.Error(),
		)
	}
	return err
}

// IsRetryable reports whether err is a transient conflict that a fresh
// attempt of the same transaction can resolve.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	case pgUniqueViolation:
		return pgErr.ConstraintName == DefaultAccountIndex
	}
	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// PostgreSQL errors are matched on their SQLSTATE. Other drivers are only
// recognised when the session was opened with gorm.Config{TranslateError:
// true}, which turns their constraint errors into gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ForUpdate locks the selected rows until the end of the transaction where
// the dialect supports row locks. SQLite serializes writers on its own.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if isPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "postgres"
}
