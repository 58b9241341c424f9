package models

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for balances and
// amounts, matching the numeric(18,2) columns.
const MoneyScale = 2

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCurrent, AccountTypeSavings:
		return true
	}
	return false
}

// Account represents a financial account in the system.
//
// At most one account per user has IsDefault set, and exactly one once the
// user owns any account. The partial unique index on user_id backs this up
// at the storage layer.
type Account struct {
	Base
	UserID    string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_accounts_one_default,where:is_default = true" json:"userId"`
	Name      string          `gorm:"not null" json:"name"`
	Type      AccountType     `gorm:"not null" json:"type"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsDefault bool            `gorm:"not null;default:false" json:"isDefault"`

	// Populated only by queries that select it.
	TransactionCount int64 `gorm:"->;-:migration" json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
