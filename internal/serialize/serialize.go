// Package serialize converts stored records into their wire form. Exact
// decimal columns (balances, amounts) become JSON numbers on the way out.
package serialize

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"wealth/internal/models"
)

// Policy decides which decimal values are converted to numbers.
type Policy int

const (
	// PolicyDefined converts every present value, zero included.
	PolicyDefined Policy = iota
	// PolicyTruthy converts only non-zero values. A zero balance or amount
	// keeps its decimal string form ("0"), as the legacy serializer did.
	PolicyTruthy
)

// Amount is a decimal field on its way to the client.
type Amount struct {
	value     decimal.Decimal
	present   bool
	converted bool
}

// Decimal returns the exact stored value.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Converted reports whether the value is emitted as a JSON number.
func (a Amount) Converted() bool { return a.converted }

// IsZero reports an absent field so `omitzero` drops it. It says nothing
// about the numeric value.
func (a Amount) IsZero() bool { return !a.present }

// MarshalJSON emits a number when converted and the decimal's own string
// encoding otherwise.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case !a.present:
		return []byte("null"), nil
	case a.converted:
		return json.Marshal(a.value.InexactFloat64())
	default:
		return a.value.MarshalJSON()
	}
}

// Serializer applies a Policy to records. The zero value uses PolicyDefined.
type Serializer struct {
	Policy Policy
}

// New returns a Serializer for the given policy.
func New(p Policy) Serializer {
	return Serializer{Policy: p}
}

// Convert wraps d according to the policy. A nil d is absent.
func (s Serializer) Convert(d *decimal.Decimal) Amount {
	if d == nil {
		return Amount{}
	}
	a := Amount{value: *d, present: true}
	if s.Policy == PolicyTruthy {
		a.converted = !d.IsZero()
	} else {
		a.converted = true
	}
	return a
}

// Count mirrors the relation counts attached to listed accounts.
type Count struct {
	Transactions int64 `json:"transactions"`
}

// Account is the wire form of models.Account.
type Account struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Name      string             `json:"name"`
	Type      models.AccountType `json:"type"`
	Balance   Amount             `json:"balance,omitzero"`
	Currency  string             `json:"currency"`
	IsDefault bool               `json:"isDefault"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Count     *Count             `json:"_count,omitempty"`
}

// Transaction is the wire form of models.Transaction.
type Transaction struct {
	ID                string                    `json:"id"`
	UserID            string                    `json:"userId"`
	AccountID         string                    `json:"accountId"`
	Type              models.TransactionType    `json:"type"`
	Amount            Amount                    `json:"amount,omitzero"`
	Description       string                    `json:"description"`
	Date              time.Time                 `json:"date"`
	Category          string                    `json:"category"`
	ReceiptURL        string                    `json:"receiptUrl,omitempty"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *models.RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time                `json:"nextRecurringDate,omitempty"`
	LastProcessed     *time.Time                `json:"lastProcessed,omitempty"`
	Status            models.TransactionStatus  `json:"status"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// Account copies a into its wire form.
func (s Serializer) Account(a models.Account) Account {
	return Account{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   s.Convert(&a.Balance),
		Currency:  a.Currency,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountWithCount is Account plus the projected transaction count.
func (s Serializer) AccountWithCount(a models.Account) Account {
	out := s.Account(a)
	out.Count = &Count{Transactions: a.TransactionCount}
	return out
}

// Transaction copies t into its wire form.
func (s Serializer) Transaction(t models.Transaction) Transaction {
	return Transaction{
		ID:                t.ID,
		UserID:            t.UserID,
		AccountID:         t.AccountID,
		Type:              t.Type,
		Amount:            s.Convert(&t.Amount),
		Description:       t.Description,
		Date:              t.Date,
		Category:          t.Category,
		ReceiptURL:        t.ReceiptURL,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: t.RecurringInterval,
		NextRecurringDate: t.NextRecurringDate,
		LastProcessed:     t.LastProcessed,
		Status:            t.Status,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// Accounts serializes a listing, always returning a non-nil slice.
func (s Serializer) Accounts(accounts []models.Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, s.AccountWithCount(a))
	}
	return out
}

// Transactions serializes a listing, always returning a non-nil slice.
func (s Serializer) Transactions(transactions []models.Transaction) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, s.Transaction(t))
	}
	return out
}
