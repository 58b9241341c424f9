package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// RecurringInterval is the cadence of a recurring transaction.
type RecurringInterval string

const (
	RecurringDaily   RecurringInterval = "DAILY"
	RecurringWeekly  RecurringInterval = "WEEKLY"
	RecurringMonthly RecurringInterval = "MONTHLY"
	RecurringYearly  RecurringInterval = "YEARLY"
)

// TransactionStatus is the processing state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction represents a financial event on an account. UserID is
// denormalized from the account so dashboard queries do not need a join.
type Transaction struct {
	Base
	UserID            string             `gorm:"type:uuid;not null;index" json:"userId"`
	AccountID         string             `gorm:"type:uuid;not null;index" json:"accountId"`
	Type              TransactionType    `gorm:"not null" json:"type"`
	Amount            decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"amount"`
	Description       string             `json:"description"`
	Date              time.Time          `gorm:"not null;index" json:"date"`
	Category          string             `gorm:"not null" json:"category"`
	ReceiptURL        string             `json:"receiptUrl,omitempty"`
	IsRecurring       bool               `gorm:"not null;default:false" json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate,omitempty"`
	LastProcessed     *time.Time         `json:"lastProcessed,omitempty"`
	Status            TransactionStatus  `gorm:"not null;default:'COMPLETED'" json:"status"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}
