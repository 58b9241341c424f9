package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type record struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

var dbCounter atomic.Int64

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:txdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "default_index_violation", err: &pgconn.PgError{Code: "23505", ConstraintName: DefaultAccountIndex}, want: true},
		{name: "other_unique_violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, want: false},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40001"}), want: true},
		{name: "plain_error", err: fmt.Errorf("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "postgres_unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, want: true},
		{name: "postgres_other", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "translated", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "plain_error", err: fmt.Errorf("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("sqlite_duplicate", func(t *testing.T) {
		db := openSQLite(t)
		if err := db.Create(&record{Name: "dup"}).Error; err != nil {
			t.Fatalf("first insert: %v", err)
		}

		err := db.Create(&record{Name: "dup"}).Error
		if err == nil {
			t.Fatal("expected duplicate insert to fail")
		}
		if !IsUniqueViolation(err) {
			t.Errorf("expected unique violation, got %T: %v", err, err)
		}
	})

	t.Run("not_retried_on_sqlite", func(t *testing.T) {
		db := openSQLite(t)
		if err := db.Create(&record{Name: "dup"}).Error; err != nil {
			t.Fatalf("first insert: %v", err)
		}

		attempts := 0
		err := Transact(context.Background(), db, func(tx *gorm.DB) error {
			attempts++
			return tx.Create(&record{Name: "dup"}).Error
		})
		if !IsUniqueViolation(err) {
			t.Fatalf("expected unique violation, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})
}

func TestTransact(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		db := openSQLite(t)

		err := Transact(context.Background(), db, func(tx *gorm.DB) error {
			return tx.Create(&record{Name: "a"}).Error
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var count int64
		db.Model(&record{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}
	})

	t.Run("rolls_back_on_error", func(t *testing.T) {
		db := openSQLite(t)

		err := Transact(context.Background(), db, func(tx *gorm.DB) error {
			if err := tx.Create(&record{Name: "a"}).Error; err != nil {
				return err
			}
			return fmt.Errorf("second step failed")
		})
		if err == nil {
			t.Fatal("expected error")
		}

		var count int64
		db.Model(&record{}).Count(&count)
		if count != 0 {
			t.Errorf("expected rollback to leave 0 rows, got %d", count)
		}
	})

	t.Run("retries_conflicts", func(t *testing.T) {
		db := openSQLite(t)

		attempts := 0
		err := Transact(context.Background(), db, func(tx *gorm.DB) error {
			attempts++
			if attempts < 2 {
				return &pgconn.PgError{Code: "40001"}
			}
			return tx.Create(&record{Name: "b"}).Error
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("gives_up_after_max_attempts", func(t *testing.T) {
		db := openSQLite(t)

		attempts := 0
		err := Transact(context.Background(), db, func(tx *gorm.DB) error {
			attempts++
			return &pgconn.PgError{Code: "40001"}
		})
		if err == nil {
			t.Fatal("expected error after exhausting attempts")
		}
		if attempts != MaxAttempts {
			t.Errorf("expected %d attempts, got %d", MaxAttempts, attempts)
		}
	})
}

func TestManagerPing(t *testing.T) {
	m := NewManagerFromDB(openSQLite(t))
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("expected ping to succeed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := m.Ping(context.Background()); err == nil {
		t.Error("expected ping on closed pool to fail")
	}
}
