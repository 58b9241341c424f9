package services

import (
	"context"
	"errors"

	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
)

// dashboardService composes the dashboard from independently fetched sections.
type dashboardService struct {
	accounts     AccountServicer
	transactions TransactionServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(accounts AccountServicer, transactions TransactionServicer) DashboardServicer {
	return &dashboardService{accounts: accounts, transactions: transactions}
}

// GetDashboard fetches every section. A failing section is left nil and its
// error recorded; the others are still returned.
func (s *dashboardService) GetDashboard(ctx context.Context, ident *identity.Identity) *Dashboard {
	d := &Dashboard{}

	accounts, err := s.accounts.ListAccounts(ctx, ident)
	if err != nil {
		d.fail(SectionAccounts, err)
	} else {
		d.Accounts = accounts
	}

	transactions, err := s.transactions.ListRecentTransactions(ctx, ident)
	if err != nil {
		d.fail(SectionTransactions, err)
	} else {
		d.Transactions = transactions
	}

	return d
}

// Failed reports whether every section failed.
func (d *Dashboard) Failed() bool {
	return d.Accounts == nil && d.Transactions == nil && len(d.Errors) > 0
}

func (d *Dashboard) fail(section string, err error) {
	if d.Errors == nil {
		d.Errors = make(map[string]*apperrors.AppError)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.WithOperation("Failed to get dashboard data", err)
	}
	d.Errors[section] = appErr
}
