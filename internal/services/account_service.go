package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth/internal/database"
	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
	"wealth/internal/logger"
	"wealth/internal/models"
	"wealth/internal/revalidate"
	"wealth/internal/serialize"
)

const (
	// OpCreateAccount prefixes every account creation failure.
	OpCreateAccount = "Failed to create account"
	opListAccounts  = "Failed to get user accounts"
)

// transactionCountSelect projects each account's live transaction count
// into models.Account.TransactionCount.
const transactionCountSelect = "accounts.*, (SELECT COUNT(*) FROM transactions t WHERE t.account_id = accounts.id AND t.deleted_at IS NULL) AS transaction_count"

// accountService handles account-related business logic.
type accountService struct {
	db          *gorm.DB
	owners      OwnerResolver
	invalidator revalidate.Invalidator
	serializer  serialize.Serializer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, owners OwnerResolver, invalidator revalidate.Invalidator, serializer serialize.Serializer) AccountServicer {
	if invalidator == nil {
		invalidator = revalidate.Nop{}
	}
	return &accountService{
		db:          db,
		owners:      owners,
		invalidator: invalidator,
		serializer:  serializer,
	}
}

// CreateAccount creates an account for the caller. The caller's first
// account is always the default; a new default account clears the flag on
// every sibling in the same unit of work.
func (s *accountService) CreateAccount(ctx context.Context, ident *identity.Identity, in CreateAccountInput) (*serialize.Account, error) {
	account, err := s.createAccount(ctx, ident, in)
	if err != nil {
		logger.FromContext(ctx).Errorw("create account failed", "error", err.Error())
		return nil, apperrors.WithOperation(OpCreateAccount, err)
	}

	s.invalidator.Revalidate(revalidate.DashboardPath)

	out := s.serializer.Account(*account)
	return &out, nil
}

func (s *accountService) createAccount(ctx context.Context, ident *identity.Identity, in CreateAccountInput) (*models.Account, error) {
	owner, err := s.owners.Lookup(ctx, ident)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid account type")
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(in.Balance))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidBalance, err)
	}
	// Stored at cents precision.
	balance = balance.Round(models.MoneyScale)
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	requested := in.IsDefault != nil && *in.IsDefault

	var account *models.Account
	err = database.Transact(ctx, s.db, func(tx *gorm.DB) error {
		// Concurrent creations for the same owner queue on this lock.
		if err := database.ForUpdate(tx).Select("id").Where("id = ?", owner.ID).First(&models.User{}).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Account{}).Where("user_id = ?", owner.ID).Count(&existing).Error; err != nil {
			return err
		}
		isDefault := existing == 0 || requested

		if isDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ? AND is_default = ?", owner.ID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		account = &models.Account{
			UserID:    owner.ID,
			Name:      name,
			Type:      in.Type,
			Balance:   balance,
			Currency:  currency,
			IsDefault: isDefault,
		}
		return tx.Create(account).Error
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("account created",
		"account_id", account.ID,
		"user_id", owner.ID,
		"is_default", account.IsDefault,
	)
	return account, nil
}

// ListAccounts returns the caller's accounts, newest first, with their
// transaction counts.
func (s *accountService) ListAccounts(ctx context.Context, ident *identity.Identity) ([]serialize.Account, error) {
	owner, err := s.owners.Lookup(ctx, ident)
	if err != nil {
		return nil, apperrors.WithOperation(opListAccounts, err)
	}

	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Select(transactionCountSelect).
		Where("accounts.user_id = ?", owner.ID).
		Order("accounts.created_at DESC, accounts.id DESC").
		Find(&accounts).Error; err != nil {
		logger.FromContext(ctx).Errorw("list accounts failed", "user_id", owner.ID, "error", err.Error())
		return nil, apperrors.WithOperation(opListAccounts, err)
	}

	return s.serializer.Accounts(accounts), nil
}
