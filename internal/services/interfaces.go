package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
	"wealth/internal/models"
	"wealth/internal/serialize"
)

// OwnerResolver maps a verified identity onto its user record.
type OwnerResolver interface {
	Lookup(ctx context.Context, ident *identity.Identity) (*models.User, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	GetProfile(ctx context.Context, ident *identity.Identity) (*models.User, error)
}

// CreateAccountInput holds the fields a caller supplies for a new account.
// Balance is the decimal text as entered; a nil IsDefault means false.
type CreateAccountInput struct {
	Name      string
	Type      models.AccountType
	Balance   string
	Currency  string
	IsDefault *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ctx context.Context, ident *identity.Identity, in CreateAccountInput) (*serialize.Account, error)
	ListAccounts(ctx context.Context, ident *identity.Identity) ([]serialize.Account, error)
}

// SeedInput describes a batch of generated transactions.
type SeedInput struct {
	UserID    string
	AccountID string
	Days      int
	Now       time.Time
	Seed      int64
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Created  int             `json:"created"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListRecentTransactions(ctx context.Context, ident *identity.Identity) ([]serialize.Transaction, error)
	SeedTransactions(ctx context.Context, in SeedInput) (*SeedResult, error)
}

// Dashboard sections fetched independently. A section whose fetch failed
// is nil and its error is reported under the section name.
const (
	SectionAccounts     = "accounts"
	SectionTransactions = "transactions"
)

// Dashboard is the composed dashboard view.
type Dashboard struct {
	Accounts     []serialize.Account            `json:"accounts"`
	Transactions []serialize.Transaction        `json:"transactions"`
	Errors       map[string]*apperrors.AppError `json:"errors,omitempty"`
}

// DashboardServicer defines the contract for the dashboard view.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, ident *identity.Identity) *Dashboard
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
