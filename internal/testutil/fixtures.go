package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"wealth/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique external id and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithExternalID(t, db, fmt.Sprintf("user_%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithExternalID creates a user bound to the given identity.
func CreateTestUserWithExternalID(t *testing.T, db *gorm.DB, externalID, email string) *models.User {
	t.Helper()

	user := &models.User{
		ExternalID: externalID,
		Name:       "Test User",
		Email:      email,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a current account with the given balance and default flag.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID, balance string, isDefault bool) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Account %d", nextID()),
		Type:      models.AccountTypeCurrent,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "USD",
		IsDefault: isDefault,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a completed transaction dated at date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		Category:  "other-expense",
		Status:    models.TransactionStatusCompleted,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CountDefaultAccounts returns how many of the user's accounts are flagged default.
func CountDefaultAccounts(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Account{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&count).Error; err != nil {
		t.Fatalf("failed to count default accounts: %v", err)
	}
	return count
}
